package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// StartCommand handles the /start command
type StartCommand struct {
	BaseCommand
}

// NewStartCommand creates a new start command
func NewStartCommand(base BaseCommand) *StartCommand {
	return &StartCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *StartCommand) GetName() string {
	return "start"
}

// RequiresAdmin returns false as start command doesn't require admin privileges
func (c *StartCommand) RequiresAdmin() bool {
	return false
}

// Handle executes the start command
func (c *StartCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	return c.Page("start", user.Locale, nil)
}
