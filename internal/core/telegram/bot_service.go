package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/PocketPalCo/catalog-bot/internal/core/telegram/commands"
	"github.com/PocketPalCo/catalog-bot/pkg/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("telegram-bot")

const (
	// maxMessageLength is Telegram's limit for one text message, in UTF-16 code units.
	maxMessageLength = 4096

	// commandTimeout bounds one command once polling has stopped caring about it.
	commandTimeout = 30 * time.Second
)

// MessageSender is the part of the Bot API client used to deliver replies
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// MessageRenderer renders the fallback texts the adapter sends on its own
type MessageRenderer interface {
	RenderMessage(messageName, locale string, data interface{}) string
}

type BotService struct {
	bot           *tgbotapi.BotAPI
	sender        MessageSender
	registry      *commands.CommandRegistry
	messages      MessageRenderer
	defaultLocale string
	logger        *slog.Logger
	handlers      sync.WaitGroup
	stopPolling   sync.Once
}

func NewBotService(token, apiEndpoint string, debug bool, registry *commands.CommandRegistry, messages MessageRenderer, defaultLocale string, logger *slog.Logger) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, apiEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.Debug = debug

	s := newBotService(bot, registry, messages, defaultLocale, logger)
	s.bot = bot
	return s, nil
}

func newBotService(sender MessageSender, registry *commands.CommandRegistry, messages MessageRenderer, defaultLocale string, logger *slog.Logger) *BotService {
	return &BotService{
		sender:        sender,
		registry:      registry,
		messages:      messages,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

func (s *BotService) Start(ctx context.Context) error {
	s.logger.Info("Starting Telegram bot", "bot_username", s.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := s.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Bot context cancelled, stopping")
			s.stopReceiving()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			s.handlers.Add(1)
			go func() {
				defer s.handlers.Done()
				s.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes one update to completion: dispatch, then reply.
// Cancelling ctx does not abort a command that already started, so a
// mutation is never cut between load and save.
func (s *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commandTimeout)
	defer cancel()

	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	user := message.From
	chatID := message.Chat.ID
	logger := s.logger.With(
		"component", "telegram_bot",
		"request_id", uuid.NewString(),
		"update_id", update.UpdateID,
		"user_id", user.ID,
		"chat_id", chatID,
	)

	if !message.IsCommand() {
		telemetry.TelegramMessagesTotal.Add(ctx, 1, api.WithAttributes(attribute.String("type", "text")))
		logger.Debug("Ignoring non-command message")
		return
	}
	telemetry.TelegramMessagesTotal.Add(ctx, 1, api.WithAttributes(attribute.String("type", "command")))

	command := strings.ToLower(message.Command())
	args := message.CommandArguments()
	requester := NewUserFromAPI(user, s.defaultLocale)

	ctx, span := tracer.Start(ctx, "telegram.command",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("telegram.command", command),
			attribute.Int64("telegram.user_id", user.ID),
		))
	defer span.End()

	logger.Info("Received command",
		"username", user.UserName,
		"command", command)

	reply, err := s.registry.ExecuteCommand(ctx, command, requester, args)
	switch {
	case errors.Is(err, commands.ErrUnknownCommand):
		s.recordCommand(ctx, "unknown", "unknown")
		reply = commands.HTMLReply(s.messages.RenderMessage("unknown_command", requester.Locale, nil))
	case err != nil:
		s.recordCommand(ctx, command, "error")
		telemetry.TelegramErrorsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("type", "command_failed"),
			attribute.String("command", command),
		))
		span.RecordError(err)
		logger.Error("Command failed", "command", command, "error", err)
		reply = commands.HTMLReply(s.messages.RenderMessage("internal_error", requester.Locale, nil))
	default:
		s.recordCommand(ctx, command, "ok")
	}

	s.sendReply(ctx, chatID, reply, logger)
}

func (s *BotService) recordCommand(ctx context.Context, command, result string) {
	telemetry.TelegramCommandsTotal.Add(ctx, 1, api.WithAttributes(
		attribute.String("command", command),
		attribute.String("result", result),
	))
}

func (s *BotService) sendReply(ctx context.Context, chatID int64, reply commands.Reply, logger *slog.Logger) {
	for _, chunk := range splitMessage(reply.Text, maxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = reply.ParseMode
		msg.DisableWebPagePreview = true

		if _, err := s.sender.Send(msg); err != nil {
			telemetry.TelegramErrorsTotal.Add(ctx, 1, api.WithAttributes(attribute.String("type", "send_failed")))
			logger.Error("Failed to send message", "error", err)
			return
		}
	}
}

// Stop stops polling and waits for in-flight updates to finish. It is safe
// to call after Start has already returned.
func (s *BotService) Stop() {
	s.stopReceiving()
	s.handlers.Wait()
}

// stopReceiving closes the client's shutdown channel, which panics if done twice.
func (s *BotService) stopReceiving() {
	s.stopPolling.Do(func() {
		if s.bot != nil {
			s.bot.StopReceivingUpdates()
		}
	})
}

// splitMessage cuts text into chunks of at most limit UTF-16 units, preferring
// blank lines, then line breaks, so formatting tags stay inside one chunk.
func splitMessage(text string, limit int) []string {
	if text == "" {
		return []string{""}
	}

	var chunks []string
	for utf16Len(text) > limit {
		cut := cutPoint(text, limit)
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// cutPoint returns a byte offset no further than limit UTF-16 units into text.
func cutPoint(text string, limit int) int {
	units := 0
	hard := len(text)
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > limit {
			hard = i
			break
		}
		units += n
	}

	window := text[:hard]
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i
	}
	if i := strings.LastIndex(window, "\n"); i > 0 {
		return i
	}
	return hard
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
