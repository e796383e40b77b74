package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/PocketPalCo/catalog-bot/internal/core/telegram/commands"
	"github.com/PocketPalCo/catalog-bot/internal/core/telegram/templates"
	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// TelegramService interface defines the contract for Telegram bot management
type TelegramService interface {
	Start(ctx context.Context) error
	Stop()
}

// Service implements TelegramService interface
type Service struct {
	cfg        *config.Config
	botService *BotService
	logger     *slog.Logger
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// NewTelegramService wires the command registry to a Bot API client
func NewTelegramService(cfg *config.Config, catalogService commands.CatalogService, logger *slog.Logger) (TelegramService, error) {
	templateManager, err := templates.NewManager(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	usersService := users.NewService(cfg.TelegramAdminID)
	registry := commands.SetupCommands(usersService, catalogService, templateManager, cfg.CurrencySymbol, logger)

	botService, err := NewBotService(cfg.TelegramBotToken, cfg.TelegramAPIEndpoint, cfg.TelegramDebug, registry, templateManager, cfg.DefaultLocale, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Telegram bot initialized",
		"admin_id", usersService.AdminID(),
		"commands", registry.Names(),
		"debug_mode", cfg.TelegramDebug,
		"component", "telegram_service")

	return &Service{
		cfg:        cfg,
		botService: botService,
		logger:     logger,
	}, nil
}

// Start runs the polling loop in the background
func (s *Service) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.botService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("Telegram bot error", "error", err)
		}
	}()

	s.logger.Info("Telegram service started", "component", "telegram_service")
	return nil
}

// Stop cancels polling and waits for in-flight commands.
func (s *Service) Stop() {
	s.logger.Info("Stopping Telegram service...")

	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()
	s.botService.Stop()

	s.logger.Info("Telegram service stopped")
}
