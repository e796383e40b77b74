package commands

import (
	"log/slog"
)

// SetupCommands initializes all bot commands and returns a registry
func SetupCommands(
	authorizer Authorizer,
	catalogService CatalogService,
	templateManager TemplateRenderer,
	currency string,
	logger *slog.Logger,
) *CommandRegistry {
	registry := NewCommandRegistry(authorizer, templateManager)

	base := NewBaseCommand(catalogService, templateManager, currency, logger)

	start := NewStartCommand(base)
	catalogCmd := NewCatalogCommand(base)

	registry.Register(start)
	registry.RegisterAlias("help", start)
	registry.Register(catalogCmd)
	registry.RegisterAlias("catalogo", catalogCmd)
	registry.Register(NewTermsCommand(base))
	registry.Register(NewMyIDCommand(base))

	// Admin commands
	registry.Register(NewAddCommand(base))
	registry.Register(NewDeleteCommand(base))
	registry.Register(NewListCommand(base))

	return registry
}
