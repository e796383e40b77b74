package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/PocketPalCo/catalog-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewLogger_JSON(t *testing.T) {
	// given
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	// when
	l := newLogger(&buf, &cfg)
	l.Info("hidden")
	l.Warn("shown", "product_id", 3)

	// then
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, float64(3), record["product_id"])
}

func Test_NewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()

	newLogger(&buf, &cfg).Info("catalog loaded", "count", 2)

	assert.Contains(t, buf.String(), `msg="catalog loaded" count=2`)
}

func Test_MultiHandler(t *testing.T) {
	// given
	var debug, info bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	l := slog.New(h).With("component", "test")

	// when
	l.Debug("only debug")
	l.Info("both")

	// then
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.Contains(t, debug.String(), "only debug")
	assert.Contains(t, debug.String(), "component=test")
	assert.NotContains(t, info.String(), "only debug")
	assert.Contains(t, info.String(), "both")
}

func Test_WithMinLevel(t *testing.T) {
	// given
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(WithMinLevel(inner, slog.LevelWarn)).With("component", "test")

	// when
	l.Info("dropped")
	l.Error("kept")

	// then
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "component=test")
}

func Test_NewObservable_KeepsLocalOutput(t *testing.T) {
	// given
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.OtlpEndpoint = "127.0.0.1:1"
	local := slog.NewTextHandler(&buf, nil)

	// when
	obs, err := NewObservable(context.Background(), &cfg, local)
	require.NoError(t, err)
	obs.Logger.Info("catalog saved", "products", 3)

	// then
	assert.Contains(t, buf.String(), `msg="catalog saved" products=3`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = obs.Shutdown(ctx)
}
