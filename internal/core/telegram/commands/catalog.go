package commands

import (
	"context"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// CatalogCommand handles the public /catalog command
type CatalogCommand struct {
	BaseCommand
}

// NewCatalogCommand creates a new catalog command
func NewCatalogCommand(base BaseCommand) *CatalogCommand {
	return &CatalogCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *CatalogCommand) GetName() string {
	return "catalog"
}

// RequiresAdmin returns false as everyone may browse the catalog
func (c *CatalogCommand) RequiresAdmin() bool {
	return false
}

// Handle renders every product as a formatted block
func (c *CatalogCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	products, err := c.catalogService.ListProducts(ctx)
	if err != nil {
		c.logger.Error("Failed to load catalog", "error", err, "user_id", user.TelegramID)
		return Reply{}, err
	}

	if len(products) == 0 {
		return c.Message("no_services", user.Locale, nil), nil
	}

	return c.Page("catalog", user.Locale, ProductsTemplateData{Products: products, Currency: c.currency})
}
