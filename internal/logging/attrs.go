package logging

import (
	"context"
	"log/slog"
	"slices"
)

type Attr = slog.Attr

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error tags err under "error". A nil error still produces the key so
// warnings keep a stable shape.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

var warningDefaults = []Attr{
	String(FieldErrorHint, "check logs for details"),
	String(FieldImpact, "operation completed with warnings"),
}

// Warn logs at WARN with event_type, error_hint, and impact always present.
// Caller-supplied values win over the defaults.
func Warn(ctx context.Context, logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	given := func(key string) bool {
		return slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key })
	}
	if !given(FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	for _, def := range warningDefaults {
		if !given(def.Key) {
			attrs = append(attrs, def)
		}
	}
	logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}
