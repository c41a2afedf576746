package logging

import (
	"context"
	"fmt"
	"log/slog"
)

// teeHandler sends every record to a primary handler (the console) and to
// mirrors (the JSON log file). The primary's error wins; a mirror failure is
// reported only when the primary succeeded.
type teeHandler struct {
	primary slog.Handler
	mirrors []slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.primary.Enabled(ctx, level) {
		return true
	}
	for _, m := range h.mirrors {
		if m.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var primaryErr error
	if h.primary.Enabled(ctx, record.Level) {
		primaryErr = h.primary.Handle(ctx, record.Clone())
	}
	var mirrorErr error
	for _, m := range h.mirrors {
		if !m.Enabled(ctx, record.Level) {
			continue
		}
		if err := m.Handle(ctx, record.Clone()); err != nil && mirrorErr == nil {
			mirrorErr = fmt.Errorf("log mirror: %w", err)
		}
	}
	if primaryErr != nil {
		return primaryErr
	}
	return mirrorErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h *teeHandler) derive(apply func(slog.Handler) slog.Handler) slog.Handler {
	mirrors := make([]slog.Handler, len(h.mirrors))
	for i, m := range h.mirrors {
		mirrors[i] = apply(m)
	}
	return &teeHandler{primary: apply(h.primary), mirrors: mirrors}
}

// TeeLogger returns a logger writing through base and also to each mirror.
// A nil base promotes the first mirror to primary; with nothing to write to,
// records are discarded.
func TeeLogger(base *slog.Logger, mirrors ...slog.Handler) *slog.Logger {
	var handlers []slog.Handler
	if base != nil {
		handlers = append(handlers, base.Handler())
	}
	for _, m := range mirrors {
		if m != nil {
			handlers = append(handlers, m)
		}
	}
	switch len(handlers) {
	case 0:
		return slog.New(slog.DiscardHandler)
	case 1:
		return slog.New(handlers[0])
	default:
		return slog.New(&teeHandler{primary: handlers[0], mirrors: handlers[1:]})
	}
}
