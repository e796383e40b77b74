package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// ListCommand handles the /list command (admin only)
type ListCommand struct {
	BaseCommand
}

// NewListCommand creates a new list command
func NewListCommand(base BaseCommand) *ListCommand {
	return &ListCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *ListCommand) GetName() string {
	return "list"
}

// RequiresAdmin returns true as list command requires admin privileges
func (c *ListCommand) RequiresAdmin() bool {
	return true
}

// Handle prints one "id: name – price" line per product
func (c *ListCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	products, err := c.catalogService.ListProducts(ctx)
	if err != nil {
		c.logger.Error("Failed to list products", "error", err)
		return Reply{}, err
	}

	if len(products) == 0 {
		return c.Message("no_products", user.Locale, nil), nil
	}

	return c.Page("list", user.Locale, ProductsTemplateData{Products: products, Currency: c.currency})
}
