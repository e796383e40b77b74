package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// MyIDCommand handles the /myid command
type MyIDCommand struct {
	BaseCommand
}

// MyIDTemplateData holds data for the myid template
type MyIDTemplateData struct {
	TelegramID int64
}

// NewMyIDCommand creates a new myid command
func NewMyIDCommand(base BaseCommand) *MyIDCommand {
	return &MyIDCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *MyIDCommand) GetName() string {
	return "myid"
}

// RequiresAdmin returns false as myid command doesn't require admin privileges
func (c *MyIDCommand) RequiresAdmin() bool {
	return false
}

// Handle replies with the requester's Telegram id, the value the operator puts in CBOT_TELEGRAM_ADMIN_ID
func (c *MyIDCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	return c.Message("myid", user.Locale, MyIDTemplateData{TelegramID: user.TelegramID}), nil
}
