package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/notify"
	"github.com/esha04492/FitApp/utils"
)

// ReminderReport is what the batch job hands back to its operator. Per-user
// failures live in Errors; the batch itself still counts as a success.
type ReminderReport struct {
	OK         bool     `json:"ok"`
	TotalUsers int      `json:"totalUsers"`
	Reminded   int      `json:"reminded"`
	Today      string   `json:"today"`
	Errors     []string `json:"errors"`
	Note       string   `json:"note,omitempty"`
}

// RunReminders scans every subscriber, skips those who already closed today
// with a non-skipped history entry, and sends one reminder to each of the
// rest. Recipients are processed sequentially and in full isolation: any
// failure is recorded as a diagnostic for that user and the batch moves on.
// Delivery is at-least-once; overlapping runs may double-notify.
func RunReminders(db *gorm.DB, logger *zap.Logger, notifier notify.Notifier, today string) *ReminderReport {
	report := &ReminderReport{OK: true, Today: today, Errors: []string{}}

	var subscribers []models.TelegramUser
	if err := db.Find(&subscribers).Error; err != nil {
		report.OK = false
		report.Errors = append(report.Errors, fmt.Sprintf("telegram_users read error: %s", err.Error()))
		return report
	}

	recipients := subscribers[:0]
	for _, s := range subscribers {
		if s.UserID != "" && s.ChatID != 0 {
			recipients = append(recipients, s)
		}
	}

	report.TotalUsers = len(recipients)
	if len(recipients) == 0 {
		report.Note = "telegram_users is empty. Users need to press Start in Telegram bot."
		return report
	}

	for _, r := range recipients {
		var count int64
		err := db.Model(&models.DayHistory{}).
			Where("user_id = ? AND local_date = ? AND skipped = ?", r.UserID, today, false).
			Limit(1).
			Count(&count).Error
		if err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("history check failed for %s: %s", r.UserID, err.Error()))
			utils.RemindersFailed.Inc()
			continue
		}
		if count > 0 {
			// Already closed today, nothing outstanding.
			continue
		}

		if err := notifier.SendReminder(r.ChatID); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("telegram send failed for %s: %s", r.UserID, err.Error()))
			utils.RemindersFailed.Inc()
			continue
		}

		report.Reminded++
		utils.RemindersSent.Inc()
	}

	logger.Info("reminders_processed",
		zap.String("today", today),
		zap.Int("total_users", report.TotalUsers),
		zap.Int("reminded", report.Reminded),
		zap.Int("errors", len(report.Errors)),
	)
	return report
}
