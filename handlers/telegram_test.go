package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/esha04492/FitApp/db"
	"github.com/esha04492/FitApp/models"
	"github.com/esha04492/FitApp/utils"
)

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.TelegramUser{}, &models.DayHistory{}))
	db.DB = gdb

	r := gin.New()
	r.GET("/api/telegram/remind", Remind)
	r.POST("/api/telegram/webhook", TelegramWebhook)
	return r
}

func TestRemind_RejectsBadSecret(t *testing.T) {
	r := setupTest(t)
	t.Setenv("REMIND_SECRET", "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/telegram/remind?secret=wrong", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRemind_RejectsWhenSecretUnset(t *testing.T) {
	r := setupTest(t)
	t.Setenv("REMIND_SECRET", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/telegram/remind?secret=", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRemind_EmptySubscribersReportsOK(t *testing.T) {
	r := setupTest(t)
	t.Setenv("REMIND_SECRET", "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/telegram/remind?secret=s3cret", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalUsers":0`)
}

func TestWebhook_StartUpsertsSubscriber(t *testing.T) {
	r := setupTest(t)

	body := `{"message":{"text":"/start","chat":{"id":42},"from":{"id":7,"username":"esha","first_name":"Esha"}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/telegram/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var sub models.TelegramUser
	require.NoError(t, db.DB.Where("chat_id = ?", 42).First(&sub).Error)
	assert.Equal(t, "7", sub.UserID)
	assert.Equal(t, "esha", sub.Username)
}

func TestWebhook_IgnoresOtherMessages(t *testing.T) {
	r := setupTest(t)

	body := `{"message":{"text":"hello","chat":{"id":42},"from":{"id":7}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/telegram/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Acked so Telegram stops retrying, nothing stored.
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	db.DB.Model(&models.TelegramUser{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
