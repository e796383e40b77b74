package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// AddCommand handles the /add command (admin only)
type AddCommand struct {
	BaseCommand
}

// NewAddCommand creates a new add command
func NewAddCommand(base BaseCommand) *AddCommand {
	return &AddCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *AddCommand) GetName() string {
	return "add"
}

// RequiresAdmin returns true as add command requires admin privileges
func (c *AddCommand) RequiresAdmin() bool {
	return true
}

// Handle executes the add command. Expected args: name;price;description
func (c *AddCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	product, err := catalog.ParseProduct(args)
	if err != nil {
		return c.Message("usage_add", user.Locale, nil), nil
	}

	added, err := c.catalogService.AddProduct(ctx, product)
	if err != nil {
		c.logger.Error("Failed to add product", "error", err, "admin_id", user.TelegramID)
		return Reply{}, err
	}

	c.logger.Info("Product added by admin",
		"product_id", added.ID,
		"admin_id", user.TelegramID)

	return c.Message("product_added", user.Locale, ProductTemplateData{ID: added.ID}), nil
}
