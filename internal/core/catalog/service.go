package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("catalog-service")

// Service runs catalog operations against a Store. Mutations hold the Locker
// for the whole load-mutate-save sequence.
type Service struct {
	store  Store
	locker Locker
	logger *slog.Logger
}

func NewService(store Store, locker Locker, logger *slog.Logger) *Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Service{
		store:  store,
		locker: locker,
		logger: logger,
	}
}

// ListProducts returns the current catalog in insertion order.
func (s *Service) ListProducts(ctx context.Context) (Catalog, error) {
	ctx, span := tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()

	c, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	span.SetAttributes(attribute.Int("catalog.size", len(c)))
	return c, nil
}

// AddProduct appends p with the next free id and returns the stored product.
func (s *Service) AddProduct(ctx context.Context, p Product) (Product, error) {
	ctx, span := tracer.Start(ctx, "catalog.AddProduct")
	defer span.End()

	if err := validate.Struct(p); err != nil {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		span.RecordError(err)
		return Product{}, fmt.Errorf("failed to lock catalog: %w", err)
	}
	defer unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return Product{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	p.ID = NextID(c)
	c = append(c, p)

	if err := s.store.Save(ctx, c); err != nil {
		span.RecordError(err)
		return Product{}, fmt.Errorf("failed to save catalog: %w", err)
	}

	span.SetAttributes(attribute.Int64("product.id", p.ID))
	s.logger.Info("Product added",
		"component", "catalog_service",
		"product_id", p.ID,
		"name", p.Name,
		"catalog_size", len(c))

	return p, nil
}

// DeleteProduct removes every product with the given id and reports how many
// were removed. Deleting an unknown id is not an error.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (int, error) {
	ctx, span := tracer.Start(ctx, "catalog.DeleteProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to lock catalog: %w", err)
	}
	defer unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}

	kept, removed := c.Without(id)

	if err := s.store.Save(ctx, kept); err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to save catalog: %w", err)
	}

	span.SetAttributes(attribute.Int("product.removed", removed))
	s.logger.Info("Product delete processed",
		"component", "catalog_service",
		"product_id", id,
		"removed", removed,
		"catalog_size", len(kept))

	return removed, nil
}
