package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/PocketPalCo/catalog-bot/internal/infra/server"
	"github.com/PocketPalCo/catalog-bot/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog-bot: %v\n", err)
		os.Exit(1)
	}

	defaultLogger := logger.NewLogger(&cfg)
	slog.SetDefault(defaultLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, &cfg, defaultLogger)
	if err != nil {
		slog.Error("failed to initialize server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv.Start()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	srv.Shutdown()
}
