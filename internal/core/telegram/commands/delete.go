package commands

import (
	"context"
	"strconv"
	"strings"

	"github.com/PocketPalCo/catalog-bot/internal/core/users"
)

// DeleteCommand handles the /del command (admin only)
type DeleteCommand struct {
	BaseCommand
}

// NewDeleteCommand creates a new del command
func NewDeleteCommand(base BaseCommand) *DeleteCommand {
	return &DeleteCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *DeleteCommand) GetName() string {
	return "del"
}

// RequiresAdmin returns true as del command requires admin privileges
func (c *DeleteCommand) RequiresAdmin() bool {
	return true
}

// Handle executes the del command. Unknown ids get the same confirmation as existing ones.
func (c *DeleteCommand) Handle(ctx context.Context, user *users.User, args string) (Reply, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return c.Message("usage_del", user.Locale, nil), nil
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return c.Message("invalid_id", user.Locale, nil), nil
	}

	removed, err := c.catalogService.DeleteProduct(ctx, id)
	if err != nil {
		c.logger.Error("Failed to delete product", "error", err, "product_id", id, "admin_id", user.TelegramID)
		return Reply{}, err
	}

	if removed == 0 {
		c.logger.Warn("Delete requested for unknown product", "product_id", id, "admin_id", user.TelegramID)
	}

	return c.Message("product_deleted", user.Locale, ProductTemplateData{ID: id}), nil
}
