package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"github.com/PocketPalCo/catalog-bot/internal/core/telegram"
	"github.com/PocketPalCo/catalog-bot/internal/infra/redis"
	"github.com/PocketPalCo/catalog-bot/internal/infra/sqlite"
	"github.com/PocketPalCo/catalog-bot/pkg/logger"
	"github.com/PocketPalCo/catalog-bot/pkg/telemetry"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"google.golang.org/grpc"
)

const serviceName = "catalog-bot"

type shutdowner interface {
	Shutdown(context.Context) error
}

type Server struct {
	cfg             *config.Config
	app             *fiber.App
	logger          *slog.Logger
	telegramService telegram.TelegramService
	closers         []io.Closer
	shutdowners     []shutdowner
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// New builds the catalog service with the configured backends and the bot
// and HTTP surfaces around it. Any partially opened resource is released on error.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *Server, err error) {
	s := &Server{cfg: cfg, logger: log}
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	var meterProvider api.MeterProvider = noop.NewMeterProvider()
	if cfg.TelemetryEnabled {
		meterProvider, err = s.initTelemetry(ctx)
		if err != nil {
			return nil, err
		}
	}

	store, err := s.openStore(meterProvider)
	if err != nil {
		return nil, err
	}

	locker, err := s.openLocker(ctx)
	if err != nil {
		return nil, err
	}

	catalogService := catalog.NewService(store, locker, s.logger)

	s.telegramService, err = telegram.NewTelegramService(cfg, catalogService, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram service: %w", err)
	}

	s.app = newApp(cfg, catalogService, meterProvider, s.logger)
	s.ctx, s.cancel = context.WithCancel(ctx)

	return s, nil
}

func (s *Server) initTelemetry(ctx context.Context) (api.MeterProvider, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(s.cfg.JaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jaeger exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	s.shutdowners = append(s.shutdowners, tp)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(s.cfg.OtlpEndpoint),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize otlp exporter: %w", err)
	}

	provider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))),
	)
	s.shutdowners = append(s.shutdowners, provider)
	otel.SetMeterProvider(provider)

	if err := runtime.Start(runtime.WithMeterProvider(provider)); err != nil {
		return nil, fmt.Errorf("failed to start runtime metrics: %w", err)
	}

	if err := telemetry.InitBusinessMetrics(provider); err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	observable, err := logger.NewObservable(ctx, s.cfg, s.logger.Handler())
	if err != nil {
		return nil, err
	}
	s.shutdowners = append(s.shutdowners, observable)
	s.logger = observable.Logger.With("environment", s.cfg.Environment)
	slog.SetDefault(s.logger)

	return provider, nil
}

func (s *Server) openStore(provider api.MeterProvider) (catalog.Store, error) {
	var store catalog.Store
	switch s.cfg.CatalogBackend {
	case "sqlite":
		db, err := sqlite.Open(s.cfg.CatalogSQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		s.closers = append(s.closers, db)
		store = db
	default:
		store = catalog.NewFileStore(s.cfg.CatalogFile)
	}

	s.logger.Info("Catalog store ready", "backend", s.cfg.CatalogBackend)

	instrumented, err := telemetry.NewInstrumentedStore(provider, store, s.cfg.CatalogBackend)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumented store: %w", err)
	}
	return instrumented, nil
}

func (s *Server) openLocker(ctx context.Context) (catalog.Locker, error) {
	if s.cfg.LockBackend != "redis" {
		return catalog.NewLocalLocker(), nil
	}

	client, err := redis.NewClient(ctx, s.cfg.RedisAddr(), s.cfg.RedisUser, s.cfg.RedisPass, s.cfg.RedisDb)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.closers = append(s.closers, client)

	s.logger.Info("Using redis catalog lock", "addr", s.cfg.RedisAddr(), "key", s.cfg.RedisLockKey)
	return redis.NewLocker(client, s.cfg.RedisLockKey, s.cfg.RedisLockTimeout(), s.logger), nil
}

func (s *Server) Start() {
	if err := s.telegramService.Start(s.ctx); err != nil {
		s.logger.Error("Telegram service error", slog.String("error", err.Error()))
	}

	if s.cfg.ServerAddress == "" {
		s.logger.Info("HTTP server disabled")
		return
	}

	s.logger.Info("Starting HTTP server", slog.String("address", s.cfg.ServerAddress))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listen(s.cfg.ServerAddress); err != nil {
			s.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()
}

// Shutdown stops polling, then waits for in-flight commands to finish writing
// the catalog before the store is closed.
func (s *Server) Shutdown() {
	s.logger.Info("Shutting down server")

	s.cancel()

	s.telegramService.Stop()

	if err := s.app.Shutdown(); err != nil {
		s.logger.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
	}

	s.wg.Wait()
	s.release()

	s.logger.Info("Server shut down successfully")
}

func (s *Server) release() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Error("Error closing resource", slog.String("error", err.Error()))
		}
	}
	s.closers = nil

	for i := len(s.shutdowners) - 1; i >= 0; i-- {
		if err := s.shutdowners[i].Shutdown(context.Background()); err != nil {
			s.logger.Error("Error shutting down telemetry provider", slog.String("error", err.Error()))
		}
	}
	s.shutdowners = nil
}
