package db

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/esha04492/FitApp/models"
)

// Default day template for the built-in program. The step entry keeps its
// original lowercase name because stats partition on it.
var builtinExercises = []struct {
	Name   string
	Target int
}{
	{"Отжимания", 30},
	{"Приседания", 50},
	{"Пресс", 40},
	{"шаги", 8000},
}

// SeedBuiltinProgram creates the shared built-in program with its full day
// schedule if no program of that name exists yet. The assignment workflow
// itself only verifies the built-in program, it never creates it.
func SeedBuiltinProgram(zlog *zap.Logger, name string, totalDays int) {
	var count int64
	if err := DB.Model(&models.Program{}).Where("name = ?", name).Count(&count).Error; err != nil {
		zlog.Error("seed_count_failed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	program := models.Program{
		ID:        uuid.NewString(),
		Name:      name,
		IsPublic:  true,
		TotalDays: totalDays,
	}
	if err := DB.Create(&program).Error; err != nil {
		zlog.Error("seed_program_failed", zap.Error(err))
		return
	}

	days := make([]models.ProgramDay, 0, totalDays)
	for d := 1; d <= totalDays; d++ {
		days = append(days, models.ProgramDay{
			ID:        uuid.NewString(),
			ProgramID: program.ID,
			DayNumber: d,
		})
	}
	if err := DB.CreateInBatches(days, 100).Error; err != nil {
		zlog.Error("seed_days_failed", zap.Error(err))
		return
	}

	rows := make([]models.DayExercise, 0, len(days)*len(builtinExercises))
	for _, day := range days {
		for i, ex := range builtinExercises {
			rows = append(rows, models.DayExercise{
				ID:           uuid.NewString(),
				ProgramDayID: day.ID,
				Name:         strings.TrimSpace(ex.Name),
				TargetReps:   ex.Target,
				SortOrder:    i + 1,
			})
		}
	}
	if err := DB.CreateInBatches(rows, 200).Error; err != nil {
		zlog.Error("seed_exercises_failed", zap.Error(err))
		return
	}

	zlog.Info("seeded_builtin_program",
		zap.String("program_id", program.ID),
		zap.String("name", name),
		zap.Int("days", totalDays),
	)
}
