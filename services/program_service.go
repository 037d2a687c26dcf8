package services

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esha04492/FitApp/models"
)

const (
	// BuiltinProgramName is the fixed name of the shared built-in program.
	// The assignment workflow verifies it, it never creates it.
	BuiltinProgramName = "100 days v.2"

	// ProgramTotalDays is the schedule length for every program.
	ProgramTotalDays = 100
)

// ExerciseInput is one exercise of a custom program request.
type ExerciseInput struct {
	Name   string `json:"name"`
	Target int    `json:"target"`
	Unit   string `json:"unit"`
}

// ExerciseWriter writes exercise rows in one physical schema shape. The
// store historically accepted two shapes for day_exercises, so every write
// goes through the shape list in fixed priority order and the first shape
// the store accepts wins. Callers never know which one that was.
type ExerciseWriter interface {
	Insert(db *gorm.DB, rows []models.DayExercise) error
	Update(db *gorm.DB, ids []string, name string, target int) error
}

// repsShape is the primary shape: a single target_reps column.
type repsShape struct{}

func (repsShape) Insert(db *gorm.DB, rows []models.DayExercise) error {
	return db.Select("ID", "ProgramDayID", "Name", "TargetReps", "SortOrder").
		CreateInBatches(rows, 200).Error
}

func (repsShape) Update(db *gorm.DB, ids []string, name string, target int) error {
	return db.Model(&models.DayExercise{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"name": name, "target_reps": target}).Error
}

// unitShape is the alternate shape: generic target + unit + weight columns.
type unitShape struct{}

func (unitShape) Insert(db *gorm.DB, rows []models.DayExercise) error {
	return db.Select("ID", "ProgramDayID", "Name", "Target", "Unit", "Weight", "SortOrder").
		CreateInBatches(rows, 200).Error
}

func (unitShape) Update(db *gorm.DB, ids []string, name string, target int) error {
	return db.Model(&models.DayExercise{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"name": name, "target": target}).Error
}

// exerciseShapes is the fixed fallback order.
var exerciseShapes = []ExerciseWriter{repsShape{}, unitShape{}}

func insertExercises(db *gorm.DB, logger *zap.Logger, rows []models.DayExercise) error {
	var lastErr error
	for _, shape := range exerciseShapes {
		if err := shape.Insert(db, rows); err != nil {
			lastErr = err
			logger.Warn("exercise_insert_shape_failed", zap.Error(err))
			continue
		}
		return nil
	}
	return storeErr("insert exercises", lastErr)
}

func updateExercises(db *gorm.DB, logger *zap.Logger, ids []string, name string, target int) error {
	var lastErr error
	for _, shape := range exerciseShapes {
		if err := shape.Update(db, ids, name, target); err != nil {
			lastErr = err
			logger.Warn("exercise_update_shape_failed", zap.Error(err))
			continue
		}
		return nil
	}
	return storeErr("update exercises", lastErr)
}

// PickBuiltin attaches the built-in program to the user. Candidates are
// searched by the fixed name, ownerless first then any ownership, newest
// first, and each must actually have a day 1 row before it is trusted —
// a prior failed creation can leave a program without its schedule.
func PickBuiltin(db *gorm.DB, logger *zap.Logger, userID string) (*models.Program, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationErr("userId is required")
	}

	var candidates []models.Program
	err := db.Where("name = ?", BuiltinProgramName).
		Order("(owner_user_id IS NULL) DESC").
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, storeErr("find built-in program", err)
	}

	for _, p := range candidates {
		var day models.ProgramDay
		err := db.Where("program_id = ? AND day_number = ?", p.ID, 1).First(&day).Error
		if err != nil {
			// Partially created program, skip the candidate.
			logger.Warn("builtin_candidate_unverified",
				zap.String("program_id", p.ID),
				zap.Error(err),
			)
			continue
		}

		if err := bindUserProgram(db, userID, p.ID); err != nil {
			return nil, err
		}

		logger.Info("builtin_program_bound",
			zap.String("user_id", userID),
			zap.String("program_id", p.ID),
		)
		program := p
		return &program, nil
	}

	return nil, notFoundErr("built-in program %q not found or has no day 1", BuiltinProgramName)
}

// CreateCustom creates a user-owned program with its full day schedule,
// writes every (day x exercise) row through the shape fallback, and binds
// the user to the new program. No rollback on terminal exercise failure:
// the orphaned program/day rows are harmless because they are never
// surfaced without exercises.
func CreateCustom(db *gorm.DB, logger *zap.Logger, userID, name string, exercises []ExerciseInput) (string, error) {
	userID = strings.TrimSpace(userID)
	name = strings.TrimSpace(name)

	if userID == "" {
		return "", validationErr("userId is required")
	}
	if name == "" {
		return "", validationErr("name is required")
	}

	cleaned := make([]ExerciseInput, 0, len(exercises))
	for _, ex := range exercises {
		exName := strings.TrimSpace(ex.Name)
		if exName == "" {
			continue
		}
		unit := "reps"
		if ex.Unit == "steps" {
			unit = "steps"
		}
		target := ex.Target
		if target < 1 {
			target = 1
		}
		cleaned = append(cleaned, ExerciseInput{Name: exName, Target: target, Unit: unit})
	}
	if len(cleaned) == 0 {
		return "", validationErr("at least one exercise is required")
	}

	program := models.Program{
		ID:          uuid.NewString(),
		Name:        name,
		OwnerUserID: &userID,
		IsPublic:    false,
		TotalDays:   ProgramTotalDays,
	}
	if err := db.Create(&program).Error; err != nil {
		return "", storeErr("create program", err)
	}

	days := make([]models.ProgramDay, 0, ProgramTotalDays)
	for d := 1; d <= ProgramTotalDays; d++ {
		days = append(days, models.ProgramDay{
			ID:        uuid.NewString(),
			ProgramID: program.ID,
			DayNumber: d,
		})
	}
	if err := db.CreateInBatches(days, 100).Error; err != nil {
		return "", storeErr("create program days", err)
	}

	rows := make([]models.DayExercise, 0, len(days)*len(cleaned))
	for _, day := range days {
		for i, ex := range cleaned {
			rows = append(rows, models.DayExercise{
				ID:           uuid.NewString(),
				ProgramDayID: day.ID,
				Name:         ex.Name,
				TargetReps:   ex.Target,
				Target:       ex.Target,
				Unit:         ex.Unit,
				SortOrder:    i + 1,
			})
		}
	}
	if err := insertExercises(db, logger, rows); err != nil {
		return "", err
	}

	if err := bindUserProgram(db, userID, program.ID); err != nil {
		return "", err
	}

	logger.Info("custom_program_created",
		zap.String("user_id", userID),
		zap.String("program_id", program.ID),
		zap.Int("exercises", len(cleaned)),
	)
	return program.ID, nil
}

// bindUserProgram points the user's state at programID and resets the day
// pointer to 1. Update-then-insert-on-miss: the store's upsert-by-unique-key
// cannot be assumed reliable, so the miss path is explicit. Switching
// programs is a full day-session reset, so any lingering progress rows are
// purged too.
func bindUserProgram(db *gorm.DB, userID, programID string) error {
	res := db.Model(&models.UserState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"program_id": programID, "current_day": 1})
	if res.Error != nil {
		return storeErr("update user state", res.Error)
	}

	if res.RowsAffected == 0 {
		state := models.UserState{UserID: userID, ProgramID: &programID, CurrentDay: 1}
		if err := db.Create(&state).Error; err != nil {
			return storeErr("create user state", err)
		}
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.ExerciseProgress{}).Error; err != nil {
		return storeErr("clear progress on bind", err)
	}

	InvalidateStats(userID, programID)
	return nil
}
