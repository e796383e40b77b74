package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// TermsCommand handles the /terms command
type TermsCommand struct {
	BaseCommand
}

// NewTermsCommand creates a new terms command
func NewTermsCommand(base BaseCommand) *TermsCommand {
	return &TermsCommand{
		BaseCommand: base,
	}
}

func (c *TermsCommand) GetName() string {
	return "terms"
}

func (c *TermsCommand) RequiresAdmin() bool {
	return false
}

func (c *TermsCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	return c.Page("terms", user.Locale, nil)
}
