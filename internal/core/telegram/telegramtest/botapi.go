// Package telegramtest runs a minimal Bot API server for tests that drive the
// real Telegram client end to end.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SentMessage is one sendMessage call received by the server.
type SentMessage struct {
	ChatID    int64
	Text      string
	ParseMode string
}

// BotAPI answers getMe, getUpdates and sendMessage. Queued updates are
// handed out on the next getUpdates call; an empty poll waits briefly so the
// client does not spin.
type BotAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	updates  []tgbotapi.Update
	sent     []SentMessage
	updateID int
}

func NewBotAPI(t testing.TB) *BotAPI {
	t.Helper()
	b := &BotAPI{}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

// Endpoint is the URL pattern for tgbotapi.NewBotAPIWithAPIEndpoint.
func (b *BotAPI) Endpoint() string {
	return b.server.URL + "/bot%s/%s"
}

// PushCommand queues a private-chat command message from the given user.
func (b *BotAPI) PushCommand(from int64, text string) {
	length := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		length = i
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.updateID++
	b.updates = append(b.updates, tgbotapi.Update{
		UpdateID: b.updateID,
		Message: &tgbotapi.Message{
			MessageID: b.updateID,
			From:      &tgbotapi.User{ID: from, FirstName: "Test", LanguageCode: "en"},
			Chat:      &tgbotapi.Chat{ID: from, Type: "private"},
			Date:      int(time.Now().Unix()),
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	})
}

// Sent returns a copy of every message sent so far.
func (b *BotAPI) Sent() []SentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SentMessage(nil), b.sent...)
}

func (b *BotAPI) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch path.Base(r.URL.Path) {
	case "getMe":
		reply(w, tgbotapi.User{ID: 1, IsBot: true, FirstName: "Catalog", UserName: "catalog_bot"})
	case "getUpdates":
		reply(w, b.takeUpdates())
	case "sendMessage":
		chatID, _ := strconv.ParseInt(r.Form.Get("chat_id"), 10, 64)
		b.mu.Lock()
		b.sent = append(b.sent, SentMessage{
			ChatID:    chatID,
			Text:      r.Form.Get("text"),
			ParseMode: r.Form.Get("parse_mode"),
		})
		id := len(b.sent)
		b.mu.Unlock()
		reply(w, tgbotapi.Message{MessageID: id, Chat: &tgbotapi.Chat{ID: chatID}})
	default:
		reply(w, true)
	}
}

func (b *BotAPI) takeUpdates() []tgbotapi.Update {
	b.mu.Lock()
	updates := b.updates
	b.updates = nil
	b.mu.Unlock()

	if len(updates) == 0 {
		time.Sleep(20 * time.Millisecond)
		return []tgbotapi.Update{}
	}
	return updates
}

func reply(w http.ResponseWriter, result interface{}) {
	raw, err := json.Marshal(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tgbotapi.APIResponse{Ok: true, Result: raw})
}
