package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendReminder_NotConfigured(t *testing.T) {
	tg := &Telegram{Client: &http.Client{Timeout: time.Second}}

	err := tg.SendReminder(42)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendReminder_Success(t *testing.T) {
	var got sendMessagePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer srv.Close()

	tg := &Telegram{
		BotToken:  "token",
		WebAppURL: "https://fit.example",
		APIBase:   srv.URL,
		Client:    srv.Client(),
	}

	require.NoError(t, tg.SendReminder(42))
	assert.EqualValues(t, 42, got.ChatID)
	require.Len(t, got.ReplyMarkup.InlineKeyboard, 1)
	require.Len(t, got.ReplyMarkup.InlineKeyboard[0], 1)
	assert.Equal(t, "https://fit.example", got.ReplyMarkup.InlineKeyboard[0][0].WebApp["url"])
}

func TestSendReminder_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	tg := &Telegram{
		BotToken:  "token",
		WebAppURL: "https://fit.example",
		APIBase:   srv.URL,
		Client:    srv.Client(),
	}

	err := tg.SendReminder(42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendReminder_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	tg := &Telegram{
		BotToken:  "token",
		WebAppURL: "https://fit.example",
		APIBase:   srv.URL,
		Client:    &http.Client{Timeout: time.Second},
	}

	assert.Error(t, tg.SendReminder(42))
}
