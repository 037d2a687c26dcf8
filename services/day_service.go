package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/utils"
)

// ResetConfirmCode gates the full reset. A UX confirmation only, not a
// security boundary.
const ResetConfirmCode = "0000"

// ExerciseView is one exercise of the active day with the user's current
// rep count folded in.
type ExerciseView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Target    int    `json:"target"`
	SortOrder int    `json:"sort_order"`
	Done      int    `json:"done"`
}

// DaySession is the aggregate the day state machine operates on: the active
// day's exercises plus the user's in-progress counts. An empty exercise list
// means the day is unusable (or the program exhausted), never "complete".
type DaySession struct {
	UserID    string         `json:"user_id"`
	ProgramID string         `json:"program_id"`
	Day       int            `json:"day"`
	Exercises []ExerciseView `json:"exercises"`
}

// DayTotals is the canonical day progress figure.
type DayTotals struct {
	Pct int `json:"pct"`
}

// LoadDaySession resolves the user's state and loads the active day.
func LoadDaySession(db *gorm.DB, logger *zap.Logger, userID string) (*DaySession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationErr("userId is required")
	}

	var state models.UserState
	if err := db.Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, notFoundErr("no program chosen yet")
	}
	if state.ProgramID == nil {
		return nil, notFoundErr("no program chosen yet")
	}

	return loadDay(db, logger, userID, *state.ProgramID, state.CurrentDay)
}

// loadDay builds the session for one program day. A lookup miss leaves the
// exercise list empty and surfaces the diagnostic; it never panics past this
// boundary. Past the last day the program_days lookup misses, which is the
// terminal exhausted state.
func loadDay(db *gorm.DB, logger *zap.Logger, userID, programID string, dayNumber int) (*DaySession, error) {
	session := &DaySession{
		UserID:    userID,
		ProgramID: programID,
		Day:       dayNumber,
		Exercises: []ExerciseView{},
	}

	var day models.ProgramDay
	if err := db.Where("program_id = ? AND day_number = ?", programID, dayNumber).
		First(&day).Error; err != nil {
		logger.Warn("program_day_missing",
			zap.String("program_id", programID),
			zap.Int("day", dayNumber),
			zap.Error(err),
		)
		return session, storeErr("load program day", err)
	}

	var exercises []models.DayExercise
	if err := db.Where("program_day_id = ?", day.ID).
		Order("sort_order").
		Find(&exercises).Error; err != nil {
		return session, storeErr("load exercises", err)
	}
	if len(exercises) == 0 {
		return session, nil
	}

	ids := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ID)
	}

	var progress []models.ExerciseProgress
	if err := db.Where("user_id = ? AND day_exercise_id IN ?", userID, ids).
		Find(&progress).Error; err != nil {
		session.Exercises = []ExerciseView{}
		return session, storeErr("load progress", err)
	}

	done := make(map[string]int, len(progress))
	for _, p := range progress {
		done[p.DayExerciseID] = p.RepsDone
	}

	for _, ex := range exercises {
		session.Exercises = append(session.Exercises, ExerciseView{
			ID:        ex.ID,
			Name:      ex.Name,
			Target:    ex.TargetAmount(),
			SortOrder: ex.SortOrder,
			Done:      done[ex.ID], // missing progress defaults to 0
		})
	}
	return session, nil
}

// UpdateReps applies a signed delta to one exercise counter and persists the
// result. Values are clamped at zero and never stored negative.
func UpdateReps(db *gorm.DB, logger *zap.Logger, userID, exerciseID string, delta int) (int, error) {
	if userID == "" || exerciseID == "" {
		return 0, validationErr("userId and exerciseId are required")
	}

	var current models.ExerciseProgress
	err := db.Where("user_id = ? AND day_exercise_id = ?", userID, exerciseID).
		First(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, storeErr("load current reps", err)
	}

	updated := current.RepsDone + delta
	if updated < 0 {
		updated = 0
	}

	row := models.ExerciseProgress{
		UserID:        userID,
		DayExerciseID: exerciseID,
		RepsDone:      updated,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day_exercise_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reps_done"}),
	}).Create(&row).Error
	if err != nil {
		return 0, storeErr("save reps", err)
	}

	return updated, nil
}

// ParseCustomReps parses an operator-entered delta. Empty, non-numeric and
// zero input all mean "no change", not an error.
func ParseCustomReps(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// Totals computes the day progress percentage as the equal-weight mean of
// per-exercise completion fractions, each clamped to [0,1] first so
// over-completing one exercise cannot compensate for an incomplete one.
func Totals(session *DaySession) DayTotals {
	if len(session.Exercises) == 0 {
		return DayTotals{Pct: 0}
	}

	sum := 0.0
	for _, ex := range session.Exercises {
		frac := 0.0
		if ex.Target > 0 {
			frac = float64(ex.Done) / float64(ex.Target)
		}
		sum += utils.ClampF(frac, 0, 1)
	}

	pct := int(math.Round(sum / float64(len(session.Exercises)) * 100))
	return DayTotals{Pct: utils.Clamp(pct, 0, 100)}
}

// AllCompleted is true iff the day has exercises and every one met its
// target. An empty list is never completable.
func AllCompleted(session *DaySession) bool {
	if len(session.Exercises) == 0 {
		return false
	}
	for _, ex := range session.Exercises {
		if ex.Done < ex.Target {
			return false
		}
	}
	return true
}

// CloseDay records the day in history and advances the day pointer. With
// force the completion check is bypassed (an explicit skip). The writes run
// in a fixed order and a failed step aborts the rest; no compensation is
// attempted because every step is an idempotent upsert on a natural key, so
// a partial close is recovered by retrying with the same inputs.
func CloseDay(db *gorm.DB, logger *zap.Logger, session *DaySession, force bool) (*DaySession, error) {
	if !force && !AllCompleted(session) {
		return nil, validationErr("day %d is not completed yet", session.Day)
	}

	entryDate := utils.TodayLocal()

	totalDone := 0
	totalTarget := 0
	for _, ex := range session.Exercises {
		totalDone += ex.Done
		totalTarget += ex.Target
	}

	history := models.DayHistory{
		UserID:      session.UserID,
		ProgramID:   session.ProgramID,
		DayNumber:   session.Day,
		LocalDate:   entryDate,
		TotalDone:   totalDone,
		TotalTarget: totalTarget,
		Skipped:     force,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "program_id"}, {Name: "day_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"local_date", "total_done", "total_target", "skipped"}),
	}).Create(&history).Error
	if err != nil {
		return nil, storeErr("save history", err)
	}

	if len(session.Exercises) > 0 {
		breakdown := make([]models.DayHistoryExercise, 0, len(session.Exercises))
		for _, ex := range session.Exercises {
			breakdown = append(breakdown, models.DayHistoryExercise{
				UserID:       session.UserID,
				ProgramID:    session.ProgramID,
				DayNumber:    session.Day,
				LocalDate:    entryDate,
				ExerciseName: ex.Name,
				RepsDone:     ex.Done,
				RepsTarget:   ex.Target,
			})
		}
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "program_id"},
				{Name: "day_number"}, {Name: "exercise_name"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"local_date", "reps_done", "reps_target"}),
		}).Create(&breakdown).Error
		if err != nil {
			return nil, storeErr("save history breakdown", err)
		}
	}

	// History is durable, only now may the pointer advance.
	next := session.Day + 1
	err = db.Model(&models.UserState{}).
		Where("user_id = ?", session.UserID).
		Updates(map[string]interface{}{"current_day": next, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, storeErr("advance day pointer", err)
	}

	if len(session.Exercises) > 0 {
		ids := make([]string, 0, len(session.Exercises))
		for _, ex := range session.Exercises {
			ids = append(ids, ex.ID)
		}
		// Scoped to this day's exercise ids, not a blanket delete.
		err = db.Where("user_id = ? AND day_exercise_id IN ?", session.UserID, ids).
			Delete(&models.ExerciseProgress{}).Error
		if err != nil {
			return nil, storeErr("clear progress", err)
		}
	}

	utils.DaysClosed.WithLabelValues(strconv.FormatBool(force)).Inc()
	InvalidateStats(session.UserID, session.ProgramID)

	logger.Info("day_closed",
		zap.String("user_id", session.UserID),
		zap.Int("day", session.Day),
		zap.Bool("skipped", force),
		zap.Int("total_done", totalDone),
		zap.Int("total_target", totalTarget),
	)

	return loadDay(db, logger, session.UserID, session.ProgramID, next)
}

// ResetProgress wipes all of the user's progress, history and breakdown rows
// for the program and rewinds the pointer to day 1.
func ResetProgress(db *gorm.DB, logger *zap.Logger, userID, programID, confirm string) (*DaySession, error) {
	if confirm != ResetConfirmCode {
		return nil, validationErr("wrong confirmation code")
	}
	if userID == "" || programID == "" {
		return nil, validationErr("userId and programId are required")
	}

	if err := db.Where("user_id = ?", userID).
		Delete(&models.ExerciseProgress{}).Error; err != nil {
		return nil, storeErr("reset progress", err)
	}
	if err := db.Where("user_id = ? AND program_id = ?", userID, programID).
		Delete(&models.DayHistory{}).Error; err != nil {
		return nil, storeErr("reset history", err)
	}
	if err := db.Where("user_id = ? AND program_id = ?", userID, programID).
		Delete(&models.DayHistoryExercise{}).Error; err != nil {
		return nil, storeErr("reset history breakdown", err)
	}
	if err := db.Model(&models.UserState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"current_day": 1, "updated_at": time.Now()}).Error; err != nil {
		return nil, storeErr("reset day pointer", err)
	}

	InvalidateStats(userID, programID)
	logger.Info("progress_reset", zap.String("user_id", userID), zap.String("program_id", programID))

	return loadDay(db, logger, userID, programID, 1)
}

// EditScope selects how far an exercise edit reaches.
type EditScope string

const (
	// ScopeToday edits the single exercise row of the current day.
	ScopeToday EditScope = "today"
	// ScopeProgram edits every row across the program's days whose name
	// matches the original exactly. Name is the join key because exercise
	// ids differ per day.
	ScopeProgram EditScope = "program"
)

// EditExercise renames and retargets an exercise definition in the given
// scope, using the same shape fallback as creation.
func EditExercise(db *gorm.DB, logger *zap.Logger, programID, exerciseID string, scope EditScope, newName string, newTarget int) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return validationErr("exercise name is required")
	}
	if newTarget < 1 {
		newTarget = 1
	}

	var original models.DayExercise
	if err := db.Where("id = ?", exerciseID).First(&original).Error; err != nil {
		return notFoundErr("exercise %s not found", exerciseID)
	}

	ids := []string{original.ID}
	if scope == ScopeProgram {
		var matches []models.DayExercise
		err := db.Select("day_exercises.*").
			Joins("JOIN program_days ON program_days.id = day_exercises.program_day_id").
			Where("program_days.program_id = ? AND day_exercises.name = ?", programID, original.Name).
			Find(&matches).Error
		if err != nil {
			return storeErr("find matching exercises", err)
		}
		ids = ids[:0]
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		if len(ids) == 0 {
			return notFoundErr("no exercises named %q in program", original.Name)
		}
	}

	if err := updateExercises(db, logger, ids, newName, newTarget); err != nil {
		return err
	}

	logger.Info("exercise_edited",
		zap.String("exercise_id", exerciseID),
		zap.String("scope", string(scope)),
		zap.Int("rows", len(ids)),
	)
	return nil
}
