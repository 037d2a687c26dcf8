package handlers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/notify"
	"github.com/esha04492/FitApp/services"
	"github.com/esha04492/FitApp/utils"
)

// Remind is the externally triggered reminder batch. The shared secret is
// the single authentication boundary in the system; everything else keys
// off caller-supplied user ids.
func Remind(c *gin.Context) {
	secret := os.Getenv("REMIND_SECRET")
	if secret == "" ||
		subtle.ConstantTimeCompare([]byte(c.Query("secret")), []byte(secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	notifier := notify.NewTelegramFromEnv()
	report := services.RunReminders(db.DB, utils.Logger, notifier, utils.TodayLocal())
	c.JSON(http.StatusOK, report)
}

type telegramUpdate struct {
	Message       *telegramMessage `json:"message"`
	EditedMessage *telegramMessage `json:"edited_message"`
}

type telegramMessage struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	From struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"from"`
}

// TelegramWebhook receives bot updates. A /start command upserts the
// subscriber row and sends the welcome message; everything else is
// acknowledged and ignored so Telegram stops retrying.
func TelegramWebhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Chat.ID == 0 || !strings.HasPrefix(msg.Text, "/start") {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	subscriber := models.TelegramUser{
		ChatID:    msg.Chat.ID,
		UserID:    strconv.FormatInt(msg.From.ID, 10),
		Username:  msg.From.Username,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "username", "first_name", "last_name"}),
	}).Create(&subscriber).Error
	if err != nil {
		utils.Logger.Error("telegram_subscribe_failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := notify.NewTelegramFromEnv().SendWelcome(msg.Chat.ID); err != nil {
		utils.Logger.Warn("telegram_welcome_failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
