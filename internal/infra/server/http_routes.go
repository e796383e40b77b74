package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/PocketPalCo/catalog-bot/internal/core/catalog"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogfiber "github.com/samber/slog-fiber"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

// CatalogReader is what the HTTP surface needs from the catalog.
type CatalogReader interface {
	ListProducts(ctx context.Context) (catalog.Catalog, error)
}

type httpMetrics struct {
	requests api.Int64Counter
	duration api.Float64Histogram
}

func newApp(cfg *config.Config, catalogService CatalogReader, provider api.MeterProvider, logger *slog.Logger) *fiber.App {
	app := fiber.New(cfg.Fiber())
	initGlobalMiddlewares(app, logger)
	registerHttpRoutes(app, cfg, catalogService, newHTTPMetrics(provider, logger))
	return app
}

func newHTTPMetrics(provider api.MeterProvider, logger *slog.Logger) *httpMetrics {
	meter := provider.Meter("http")
	requests, err := meter.Int64Counter("http_requests_total", api.WithDescription("Total number of HTTP requests."))
	if err != nil {
		logger.Warn("failed to create http request counter", "error", err)
	}
	duration, err := meter.Float64Histogram("http_request_duration_ms", api.WithDescription("Duration of HTTP requests in milliseconds."))
	if err != nil {
		logger.Warn("failed to create http duration histogram", "error", err)
	}
	return &httpMetrics{requests: requests, duration: duration}
}

func initGlobalMiddlewares(app *fiber.App, logger *slog.Logger) {
	app.Use(
		compress.New(compress.Config{
			Level: compress.LevelDefault,
		}),

		slogfiber.NewWithFilters(logger, slogfiber.IgnorePath("/health")),

		favicon.New(),
		limiter.New(limiter.Config{
			Max:               60,
			Expiration:        time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health"
			},
		}),
	)

	app.Use(otelfiber.Middleware())
}

func registerHttpRoutes(app *fiber.App, cfg *config.Config, catalogService CatalogReader, metrics *httpMetrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"backend":   cfg.CatalogBackend,
			"timestamp": time.Now().Unix(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiRoutes := app.Group("/v1")

	// Read-only view of the public catalog.
	apiRoutes.Get("/catalog", withMetrics(metrics, func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		products, err := catalogService.ListProducts(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fiber.ErrRequestTimeout
			}
			slog.Error("Catalog load failed",
				"component", "http_handler",
				"endpoint", "/v1/catalog",
				"error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "catalog unavailable"})
		}

		return c.JSON(fiber.Map{
			"currency": cfg.CurrencySymbol,
			"products": products,
		})
	}))
}

func withMetrics(metrics *httpMetrics, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handler(c)

		durationMs := float64(time.Since(start).Milliseconds())
		attrs := api.WithAttributes(
			attribute.String("method", c.Method()),
			attribute.String("path", c.Route().Path),
			attribute.Int("status_code", c.Response().StatusCode()),
		)

		if metrics.requests != nil {
			metrics.requests.Add(c.UserContext(), 1, attrs)
		}
		if metrics.duration != nil {
			metrics.duration.Record(c.UserContext(), durationMs, attrs)
		}

		return err
	}
}
