package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/PocketPalCo/catalog-bot/config"
)

// NewLogger builds the local stdout logger from CBOT_LOG_FORMAT and CBOT_LOG_LEVEL.
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := cfg.GetSlogLevel()
	opts := &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
