package models

import "time"

// Program is a named workout plan: either the shared built-in one
// (OwnerUserID is nil) or a user-owned custom plan.
type Program struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	OwnerUserID *string   `gorm:"index" json:"owner_user_id"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	TotalDays   int       `json:"total_days"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProgramDay is one row per day 1..TotalDays, created in bulk with the program.
type ProgramDay struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID string `gorm:"type:uuid;uniqueIndex:idx_program_day" json:"program_id"`
	DayNumber int    `gorm:"uniqueIndex:idx_program_day" json:"day_number"`
}

// DayExercise is a day-scoped exercise definition. Two physical shapes share
// this table: the primary one fills TargetReps, the alternate one fills
// Target/Unit/Weight. Readers treat whichever target column is set as the goal.
type DayExercise struct {
	ID           string   `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramDayID string   `gorm:"type:uuid;uniqueIndex:idx_day_sort" json:"program_day_id"`
	Name         string   `json:"name"`
	TargetReps   int      `json:"target_reps"`
	Target       int      `json:"target"`
	Unit         string   `json:"unit"`
	Weight       *float64 `json:"weight"`
	SortOrder    int      `gorm:"uniqueIndex:idx_day_sort" json:"sort_order"`
}

// TargetAmount returns the goal regardless of which shape wrote the row.
func (e *DayExercise) TargetAmount() int {
	if e.TargetReps > 0 {
		return e.TargetReps
	}
	return e.Target
}

// UserState holds the single day pointer per user. ProgramID nil means the
// user has not chosen a program yet.
type UserState struct {
	UserID     string    `gorm:"primaryKey" json:"user_id"`
	ProgramID  *string   `gorm:"type:uuid" json:"program_id"`
	CurrentDay int       `gorm:"default:1" json:"current_day"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ExerciseProgress is the transient per-day rep counter. Rows are deleted,
// not zeroed, when the day closes.
type ExerciseProgress struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	UserID        string `gorm:"uniqueIndex:idx_user_exercise" json:"user_id"`
	DayExerciseID string `gorm:"type:uuid;uniqueIndex:idx_user_exercise" json:"day_exercise_id"`
	RepsDone      int    `json:"reps_done"`
}

// DayHistory is the per-day totals row, upserted on close so closing the same
// day twice overwrites rather than duplicates.
type DayHistory struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	UserID      string `gorm:"uniqueIndex:idx_user_program_day" json:"user_id"`
	ProgramID   string `gorm:"type:uuid;uniqueIndex:idx_user_program_day" json:"program_id"`
	DayNumber   int    `gorm:"uniqueIndex:idx_user_program_day" json:"day_number"`
	LocalDate   string `gorm:"size:10;index" json:"local_date"`
	TotalDone   int    `json:"total_done"`
	TotalTarget int    `json:"total_target"`
	Skipped     bool   `gorm:"default:false" json:"skipped"`
}

// DayHistoryExercise is the per-exercise breakdown written alongside the
// totals row. Exercise name is a key component because exercise ids differ
// per day.
type DayHistoryExercise struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	UserID       string `gorm:"uniqueIndex:idx_history_exercise" json:"user_id"`
	ProgramID    string `gorm:"type:uuid;uniqueIndex:idx_history_exercise" json:"program_id"`
	DayNumber    int    `gorm:"uniqueIndex:idx_history_exercise" json:"day_number"`
	LocalDate    string `gorm:"size:10" json:"local_date"`
	ExerciseName string `gorm:"uniqueIndex:idx_history_exercise" json:"exercise_name"`
	RepsDone     int    `json:"reps_done"`
	RepsTarget   int    `json:"reps_target"`
}

// TelegramUser is a reminder subscriber, upserted when the user presses
// Start in the bot.
type TelegramUser struct {
	ChatID    int64     `gorm:"primaryKey" json:"chat_id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
