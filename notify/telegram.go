// Package notify wraps the outbound messaging capability. The only concrete
// provider is the Telegram Bot API, called directly over HTTP.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrNotConfigured is returned when the bot credentials are missing. The
// reminder job records it per recipient instead of failing the batch.
var ErrNotConfigured = errors.New("telegram: BOT_TOKEN or WEBAPP_URL missing")

// Notifier is the generic "send notification" capability the rest of the
// system depends on.
type Notifier interface {
	SendReminder(chatID int64) error
	SendWelcome(chatID int64) error
}

// Telegram sends messages through the Bot API with an inline keyboard button
// deep-linking back into the web app.
type Telegram struct {
	BotToken  string
	WebAppURL string
	APIBase   string // defaults to the public Bot API host
	Client    *http.Client
}

// NewTelegramFromEnv reads BOT_TOKEN and WEBAPP_URL. Missing values are not
// fatal here; sends will return ErrNotConfigured.
func NewTelegramFromEnv() *Telegram {
	return &Telegram{
		BotToken:  os.Getenv("BOT_TOKEN"),
		WebAppURL: os.Getenv("WEBAPP_URL"),
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Telegram) apiURL(method string) string {
	base := t.APIBase
	if base == "" {
		base = "https://api.telegram.org"
	}
	return fmt.Sprintf("%s/bot%s/%s", base, t.BotToken, method)
}

type inlineButton struct {
	Text   string            `json:"text"`
	WebApp map[string]string `json:"web_app"`
}

type sendMessagePayload struct {
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text"`
	ReplyMarkup struct {
		InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
	} `json:"reply_markup"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) sendMessage(chatID int64, text, buttonText string) error {
	if t.BotToken == "" || t.WebAppURL == "" {
		return ErrNotConfigured
	}

	payload := sendMessagePayload{ChatID: chatID, Text: text}
	payload.ReplyMarkup.InlineKeyboard = [][]inlineButton{{
		{Text: buttonText, WebApp: map[string]string{"url": t.WebAppURL}},
	}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram marshal: %w", err)
	}

	resp, err := t.Client.Post(t.apiURL("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		parsed = apiResponse{}
	}
	if resp.StatusCode != http.StatusOK || !parsed.OK {
		desc := parsed.Description
		if desc == "" {
			desc = resp.Status
		}
		return fmt.Errorf("telegram send failed: %s", desc)
	}
	return nil
}

// SendReminder nudges a user who has not closed today.
func (t *Telegram) SendReminder(chatID int64) error {
	return t.sendMessage(chatID,
		"You have not completed your workout today yet. Tap Open app.",
		"Open app",
	)
}

// SendWelcome greets a user who pressed Start in the bot.
func (t *Telegram) SendWelcome(chatID int64) error {
	return t.sendMessage(chatID,
		"🔥 Добро пожаловать в FitStreak!\n\nСможешь продержаться 100 дней подряд?\n\nЖми кнопку ниже и начинай сегодня 💪",
		"🚀 Открыть приложение",
	)
}
