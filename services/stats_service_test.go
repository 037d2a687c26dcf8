package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esha04492/FitApp/models"
)

func entry(day int, date string, done, target int, skipped bool) models.DayHistory {
	return models.DayHistory{
		UserID:      "u1",
		ProgramID:   "p1",
		DayNumber:   day,
		LocalDate:   date,
		TotalDone:   done,
		TotalTarget: target,
		Skipped:     skipped,
	}
}

func TestComputeStreaks_Empty(t *testing.T) {
	current, best := ComputeStreaks(nil)
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, best)
}

func TestComputeStreaks_TrailingRun(t *testing.T) {
	history := []models.DayHistory{
		entry(1, "2026-08-01", 100, 100, false),
		entry(2, "2026-08-02", 120, 100, false),
		entry(3, "2026-08-03", 100, 100, false),
	}

	current, best := ComputeStreaks(history)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, best)
}

func TestComputeStreaks_TrailingFailureResets(t *testing.T) {
	history := []models.DayHistory{
		entry(1, "2026-08-01", 100, 100, false),
		entry(2, "2026-08-02", 100, 100, false),
		entry(3, "2026-08-03", 50, 100, false),
	}

	current, best := ComputeStreaks(history)
	assert.Equal(t, 0, current, "a failed trailing day resets the streak")
	assert.Equal(t, 2, best)
}

func TestComputeStreaks_SkippedDayBreaksRun(t *testing.T) {
	history := []models.DayHistory{
		entry(1, "2026-08-01", 100, 100, false),
		entry(2, "2026-08-02", 30, 100, true),
		entry(3, "2026-08-03", 100, 100, false),
		entry(4, "2026-08-04", 100, 100, false),
	}

	current, best := ComputeStreaks(history)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, best)
}

func TestComputeStreaks_UnsortedInput(t *testing.T) {
	// Entries arrive in arbitrary order; the walk sorts by day number.
	history := []models.DayHistory{
		entry(3, "2026-08-03", 100, 100, false),
		entry(1, "2026-08-01", 100, 100, false),
		entry(2, "2026-08-02", 100, 100, false),
	}

	current, _ := ComputeStreaks(history)
	assert.Equal(t, 3, current)
}

func TestComputeStreaks_ZeroTargetNeverCompletes(t *testing.T) {
	history := []models.DayHistory{
		entry(1, "2026-08-01", 0, 0, false),
	}

	current, best := ComputeStreaks(history)
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, best)
}

func TestRecentWindow_TakesSevenNewestByDate(t *testing.T) {
	var history []models.DayHistory
	dates := []string{
		"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04",
		"2026-08-05", "2026-08-06", "2026-08-07", "2026-08-08", "2026-08-09",
	}
	for i, d := range dates {
		history = append(history, entry(i+1, d, 10, 10, false))
	}

	window := RecentWindow(history, 7)
	require.Len(t, window, 7)
	assert.Equal(t, "2026-08-09", window[0].LocalDate)
	assert.Equal(t, "2026-08-03", window[6].LocalDate)
}

func TestDeriveStats_TotalsByKind(t *testing.T) {
	history := []models.DayHistory{
		entry(1, "2026-08-01", 8030, 8030, false),
		entry(2, "2026-08-02", 8050, 8030, false),
	}
	breakdown := []models.DayHistoryExercise{
		{UserID: "u1", ProgramID: "p1", DayNumber: 1, ExerciseName: "шаги", RepsDone: 8000, RepsTarget: 8000},
		{UserID: "u1", ProgramID: "p1", DayNumber: 1, ExerciseName: "Отжимания", RepsDone: 30, RepsTarget: 30},
		{UserID: "u1", ProgramID: "p1", DayNumber: 2, ExerciseName: "Шаги", RepsDone: 8000, RepsTarget: 8000},
		{UserID: "u1", ProgramID: "p1", DayNumber: 2, ExerciseName: "Отжимания", RepsDone: 50, RepsTarget: 30},
	}

	stats := DeriveStats(history, breakdown)

	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, 16080, stats.TotalReps)
	assert.Equal(t, 2, stats.CurrentStreak)
	// The step partition matches case-insensitively.
	assert.Equal(t, 16000, stats.TotalsByKind.Steps)
	assert.Equal(t, 80, stats.TotalsByKind.Others)
	assert.Equal(t, 80, stats.ByExercise["Отжимания"])
}

func TestBuildStats_LoadsFromStore(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.DayHistory{
		UserID: "u1", ProgramID: "p1", DayNumber: 1,
		LocalDate: "2026-08-01", TotalDone: 100, TotalTarget: 100,
	}).Error)
	require.NoError(t, db.Create(&models.DayHistoryExercise{
		UserID: "u1", ProgramID: "p1", DayNumber: 1,
		LocalDate: "2026-08-01", ExerciseName: "Приседания", RepsDone: 100, RepsTarget: 100,
	}).Error)

	stats, err := BuildStats(db, testLogger(), "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDays)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 100, stats.TotalsByKind.Others)
}

func TestBuildStats_RequiresIDs(t *testing.T) {
	db := newTestDB(t)

	_, err := BuildStats(db, testLogger(), "", "p1")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
