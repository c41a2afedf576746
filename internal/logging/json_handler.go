package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// jsonTimeLayout keeps milliseconds so records from one run stay ordered in
// the log file.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// runJSONHandler writes one JSON object per record. Records logged with a
// run context carry run_id and policy even when the logger was never bound
// to them, so every line in the log file can be matched to a ledger row.
type runJSONHandler struct {
	inner slog.Handler
	// bound holds the run keys already attached through WithAttrs.
	bound map[string]bool
}

func newJSONHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: renameJSONKeys,
	}
	return &runJSONHandler{inner: slog.NewJSONHandler(w, &opts)}
}

func renameJSONKeys(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
		}
	case slog.LevelKey:
		attr.Key = "level"
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "msg"
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}

func (h *runJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *runJSONHandler) Handle(ctx context.Context, record slog.Record) error {
	missing := h.missingRunFields(ctx, record)
	if len(missing) > 0 {
		record = record.Clone()
		record.AddAttrs(missing...)
	}
	return h.inner.Handle(ctx, record)
}

func (h *runJSONHandler) missingRunFields(ctx context.Context, record slog.Record) []slog.Attr {
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return nil
	}
	present := make(map[string]bool, len(h.bound)+2)
	for key := range h.bound {
		present[key] = true
	}
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldRunID || attr.Key == FieldPolicy {
			present[attr.Key] = true
		}
		return true
	})
	missing := fields[:0]
	for _, field := range fields {
		if !present[field.Key] {
			missing = append(missing, field)
		}
	}
	return missing
}

func (h *runJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make(map[string]bool, len(h.bound)+len(attrs))
	for key := range h.bound {
		bound[key] = true
	}
	for _, attr := range attrs {
		if attr.Key == FieldRunID || attr.Key == FieldPolicy {
			bound[attr.Key] = true
		}
	}
	return &runJSONHandler{inner: h.inner.WithAttrs(attrs), bound: bound}
}

func (h *runJSONHandler) WithGroup(name string) slog.Handler {
	return &runJSONHandler{inner: h.inner.WithGroup(name), bound: h.bound}
}
