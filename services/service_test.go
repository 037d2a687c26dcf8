package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/esha04492/FitApp/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// :memory: gives every pooled connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Program{},
		&models.ProgramDay{},
		&models.DayExercise{},
		&models.UserState{},
		&models.ExerciseProgress{},
		&models.DayHistory{},
		&models.DayHistoryExercise{},
		&models.TelegramUser{},
	))
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// seedProgram creates a program with the given number of days and one set of
// exercises repeated on every day. Returns the program id.
func seedProgram(t *testing.T, db *gorm.DB, name string, totalDays int, exercises []ExerciseInput) string {
	t.Helper()

	program := models.Program{
		ID:        uuid.NewString(),
		Name:      name,
		IsPublic:  true,
		TotalDays: totalDays,
	}
	require.NoError(t, db.Create(&program).Error)

	for d := 1; d <= totalDays; d++ {
		day := models.ProgramDay{ID: uuid.NewString(), ProgramID: program.ID, DayNumber: d}
		require.NoError(t, db.Create(&day).Error)

		for i, ex := range exercises {
			row := models.DayExercise{
				ID:           uuid.NewString(),
				ProgramDayID: day.ID,
				Name:         ex.Name,
				TargetReps:   ex.Target,
				SortOrder:    i + 1,
			}
			require.NoError(t, db.Create(&row).Error)
		}
	}
	return program.ID
}

func bindUser(t *testing.T, db *gorm.DB, userID, programID string) {
	t.Helper()
	state := models.UserState{UserID: userID, ProgramID: &programID, CurrentDay: 1}
	require.NoError(t, db.Create(&state).Error)
}
