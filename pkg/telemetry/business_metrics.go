package telemetry

import (
	"log/slog"

	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Business metrics for application-level monitoring. They are no-op
// instruments until InitBusinessMetrics runs.
var (
	// Telegram Bot metrics
	TelegramMessagesTotal api.Int64Counter
	TelegramCommandsTotal api.Int64Counter
	TelegramErrorsTotal   api.Int64Counter

	// Catalog metrics
	CatalogStoreOperations api.Int64Counter
	CatalogProductsCount   api.Int64Gauge

	// Error tracking
	StorageErrorsTotal api.Int64Counter
)

func init() {
	if err := InitBusinessMetrics(noop.NewMeterProvider()); err != nil {
		panic(err)
	}
}

// InitBusinessMetrics initializes all business-level metrics
func InitBusinessMetrics(provider api.MeterProvider) error {
	meter := provider.Meter("business")

	var err error

	// Telegram Bot Metrics
	TelegramMessagesTotal, err = meter.Int64Counter("telegram.messages.total",
		api.WithDescription("Total Telegram messages processed by type"))
	if err != nil {
		return err
	}

	TelegramCommandsTotal, err = meter.Int64Counter("telegram.commands.total",
		api.WithDescription("Total Telegram commands executed by command and result"))
	if err != nil {
		return err
	}

	TelegramErrorsTotal, err = meter.Int64Counter("telegram.errors.total",
		api.WithDescription("Total Telegram bot errors by type"))
	if err != nil {
		return err
	}

	// Catalog Metrics
	CatalogStoreOperations, err = meter.Int64Counter("catalog.store.operations.total",
		api.WithDescription("Total catalog store operations by type (load, save) and result"))
	if err != nil {
		return err
	}

	CatalogProductsCount, err = meter.Int64Gauge("catalog.products",
		api.WithDescription("Number of products in the catalog at the last load or save"))
	if err != nil {
		return err
	}

	// Error Metrics
	StorageErrorsTotal, err = meter.Int64Counter("catalog.store.errors.total",
		api.WithDescription("Total catalog store errors by operation"))
	if err != nil {
		return err
	}

	slog.Debug("Business metrics initialized successfully")
	return nil
}
