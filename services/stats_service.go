package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esha04492/FitApp/cache"
	"github.com/esha04492/FitApp/models"
)

// StepsExerciseName is the reserved name of the step-counting exercise.
// Step totals are reported apart from rep totals because the magnitudes
// are not comparable.
const StepsExerciseName = "шаги"

const statsCacheTTL = 5 * time.Minute

// TotalsByKind splits lifetime totals into steps vs everything else.
type TotalsByKind struct {
	Steps  int `json:"steps"`
	Others int `json:"others"`
}

// Stats is the derived view over a user's history for one program.
type Stats struct {
	TotalDays     int                 `json:"total_days"`
	TotalReps     int                 `json:"total_reps"`
	CurrentStreak int                 `json:"current_streak"`
	BestStreak    int                 `json:"best_streak"`
	Last7         []models.DayHistory `json:"last7"`
	TotalsByKind  TotalsByKind        `json:"totals_by_kind"`
	ByExercise    map[string]int      `json:"by_exercise"`
}

func statsCacheKey(userID, programID string) string {
	return fmt.Sprintf("stats:%s:%s", userID, programID)
}

// InvalidateStats drops the cached stats for (user, program). Called by
// every mutation that changes history or the day pointer.
func InvalidateStats(userID, programID string) {
	_ = cache.Delete(statsCacheKey(userID, programID))
}

// ComputeStreaks walks the history in day-number order. A day counts as
// completed iff it had a positive target and met it. Current is the trailing
// run of completed days, best the longest run anywhere.
func ComputeStreaks(history []models.DayHistory) (current, best int) {
	if len(history) == 0 {
		return 0, 0
	}

	sorted := make([]models.DayHistory, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DayNumber < sorted[j].DayNumber
	})

	for _, entry := range sorted {
		completed := entry.TotalTarget > 0 && entry.TotalDone >= entry.TotalTarget
		if completed {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return current, best
}

// RecentWindow returns the n entries with the largest local dates. Dates are
// fixed-width YYYY-MM-DD, so lexicographic order is chronological order.
func RecentWindow(history []models.DayHistory, n int) []models.DayHistory {
	sorted := make([]models.DayHistory, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LocalDate > sorted[j].LocalDate
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// DeriveStats is the pure derivation over history and breakdown rows.
func DeriveStats(history []models.DayHistory, breakdown []models.DayHistoryExercise) *Stats {
	stats := &Stats{
		TotalDays:  len(history),
		Last7:      RecentWindow(history, 7),
		ByExercise: make(map[string]int),
	}

	for _, h := range history {
		stats.TotalReps += h.TotalDone
	}
	stats.CurrentStreak, stats.BestStreak = ComputeStreaks(history)

	for _, b := range breakdown {
		stats.ByExercise[b.ExerciseName] += b.RepsDone
		if strings.EqualFold(b.ExerciseName, StepsExerciseName) {
			stats.TotalsByKind.Steps += b.RepsDone
		} else {
			stats.TotalsByKind.Others += b.RepsDone
		}
	}
	return stats
}

// BuildStats loads the history log and derives the stats view, cache-aside
// with a short TTL. Cache trouble degrades to a store read, never to a
// request failure.
func BuildStats(db *gorm.DB, logger *zap.Logger, userID, programID string) (*Stats, error) {
	if userID == "" || programID == "" {
		return nil, validationErr("userId and programId are required")
	}

	key := statsCacheKey(userID, programID)
	var cached Stats
	if err := cache.Get(key, &cached); err == nil {
		return &cached, nil
	}

	var history []models.DayHistory
	err := db.Where("user_id = ? AND program_id = ?", userID, programID).
		Order("day_number").
		Limit(500).
		Find(&history).Error
	if err != nil {
		return nil, storeErr("load history", err)
	}

	var breakdown []models.DayHistoryExercise
	err = db.Where("user_id = ? AND program_id = ?", userID, programID).
		Limit(10000).
		Find(&breakdown).Error
	if err != nil {
		return nil, storeErr("load history breakdown", err)
	}

	stats := DeriveStats(history, breakdown)

	if err := cache.Set(key, stats, statsCacheTTL); err != nil {
		logger.Warn("stats_cache_set_failed", zap.Error(err))
	}
	return stats, nil
}
