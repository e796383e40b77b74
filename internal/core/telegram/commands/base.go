package commands

import (
	"context"
	"log/slog"

	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
)

// TemplateRenderer interface defines the contract for template rendering
type TemplateRenderer interface {
	RenderTemplate(templateName, locale string, data interface{}) (string, error)
	RenderMessage(messageName, locale string, data interface{}) string
}

// CatalogService is the part of catalog.Service the commands use
type CatalogService interface {
	ListProducts(ctx context.Context) (catalog.Catalog, error)
	AddProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) (int, error)
}

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	catalogService  CatalogService
	templateManager TemplateRenderer
	currency        string
	logger          *slog.Logger
}

// NewBaseCommand creates a new base command with common dependencies
func NewBaseCommand(
	catalogService CatalogService,
	templateManager TemplateRenderer,
	currency string,
	logger *slog.Logger,
) BaseCommand {
	return BaseCommand{
		catalogService:  catalogService,
		templateManager: templateManager,
		currency:        currency,
		logger:          logger,
	}
}

// Message renders a named message as an HTML reply
func (bc *BaseCommand) Message(name, locale string, data interface{}) Reply {
	return HTMLReply(bc.templateManager.RenderMessage(name, locale, data))
}

// Page renders a page template as an HTML reply
func (bc *BaseCommand) Page(name, locale string, data interface{}) (Reply, error) {
	text, err := bc.templateManager.RenderTemplate(name, locale, data)
	if err != nil {
		bc.logger.Error("Failed to render template", "template", name, "error", err)
		return Reply{}, err
	}
	return HTMLReply(text), nil
}

// ProductsTemplateData holds data for the catalog and list templates
type ProductsTemplateData struct {
	Products catalog.Catalog
	Currency string
}

// ProductTemplateData holds the id shown in add/del confirmations
type ProductTemplateData struct {
	ID int64
}
