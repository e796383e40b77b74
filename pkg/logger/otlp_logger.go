package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"google.golang.org/grpc"
)

const (
	serviceName    = "catalog-bot"
	serviceVersion = "1.0.0"
)

// Observable is a logger whose records also leave the process over OTLP.
// Shutdown flushes the records still buffered for export.
type Observable struct {
	Logger   *slog.Logger
	provider *log.LoggerProvider
}

// NewObservable tees local into an OTLP exporter at cfg.OtlpEndpoint. Only
// records at or above the configured level are exported.
func NewObservable(ctx context.Context, cfg *config.Config, local slog.Handler) (*Observable, error) {
	exporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(cfg.OtlpEndpoint),
		otlploggrpc.WithInsecure(),
		otlploggrpc.WithDialOption(grpc.WithUserAgent(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.ServiceInstanceID(uuid.NewString()),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := log.NewLoggerProvider(
		log.WithResource(res),
		log.WithProcessor(log.NewBatchProcessor(exporter)),
	)

	remote := WithMinLevel(
		otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider)),
		cfg.GetSlogLevel(),
	)

	return &Observable{
		Logger:   slog.New(NewMultiHandler(local, remote)),
		provider: provider,
	}, nil
}

func (o *Observable) Shutdown(ctx context.Context) error {
	return o.provider.Shutdown(ctx)
}
