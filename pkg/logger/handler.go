package logger

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans every record out to each wrapped handler that accepts its level
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives each handler its own clone; a failing handler does not stop the others.
func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) each(derive func(slog.Handler) slog.Handler) *MultiHandler {
	derived := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		derived[i] = derive(h)
	}
	return &MultiHandler{handlers: derived}
}

// WithMinLevel drops records below minLevel before they reach h.
func WithMinLevel(h slog.Handler, minLevel slog.Leveler) slog.Handler {
	return &levelHandler{Handler: h, min: minLevel}
}

type levelHandler struct {
	slog.Handler
	min slog.Leveler
}

func (l *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= l.min.Level() && l.Handler.Enabled(ctx, level)
}

func (l *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: l.Handler.WithAttrs(attrs), min: l.min}
}

func (l *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: l.Handler.WithGroup(name), min: l.min}
}
