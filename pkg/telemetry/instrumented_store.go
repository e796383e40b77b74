package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

// InstrumentedStore records timing and outcome of every catalog store call.
type InstrumentedStore struct {
	catalog.Store
	backend       string
	queryDuration api.Float64Histogram
}

func NewInstrumentedStore(provider api.MeterProvider, store catalog.Store, backend string) (*InstrumentedStore, error) {
	meter := provider.Meter("catalog_store")

	queryDuration, err := meter.Float64Histogram(
		"catalog.store.duration",
		api.WithDescription("Duration of catalog store operations in milliseconds."),
		api.WithUnit("ms"),
	)
	if err != nil {
		slog.Error("Error creating catalog.store.duration histogram", slog.String("error", err.Error()))
		return nil, err
	}

	return &InstrumentedStore{
		Store:         store,
		backend:       backend,
		queryDuration: queryDuration,
	}, nil
}

func (is *InstrumentedStore) Load(ctx context.Context) (catalog.Catalog, error) {
	start := time.Now()
	c, err := is.Store.Load(ctx)
	is.record(ctx, "load", start, err)
	if err == nil {
		CatalogProductsCount.Record(ctx, int64(len(c)), api.WithAttributes(attribute.String("backend", is.backend)))
	}
	return c, err
}

func (is *InstrumentedStore) Save(ctx context.Context, c catalog.Catalog) error {
	start := time.Now()
	err := is.Store.Save(ctx, c)
	is.record(ctx, "save", start, err)
	if err == nil {
		CatalogProductsCount.Record(ctx, int64(len(c)), api.WithAttributes(attribute.String("backend", is.backend)))
	}
	return err
}

func (is *InstrumentedStore) record(ctx context.Context, operation string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000

	result := "ok"
	if err != nil {
		result = "error"
		StorageErrorsTotal.Add(ctx, 1, api.WithAttributes(
			attribute.String("backend", is.backend),
			attribute.String("operation", operation),
		))
	}

	attrs := api.WithAttributes(
		attribute.String("backend", is.backend),
		attribute.String("operation", operation),
		attribute.String("result", result),
	)
	is.queryDuration.Record(ctx, durationMs, attrs)
	CatalogStoreOperations.Add(ctx, 1, attrs)
}
