package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one human-readable line per record:
//
//	2026-03-01T10:04:05Z INFO [run 1a2b3c4d] pairing: pairs generated pairs=12
//
// The run tag comes from the record context and is left out when the
// record or logger already carries run_id. Attributes bound through
// WithAttrs are rendered once, at bind time.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     slog.Leveler
	addSource bool

	group     string
	component string
	bound     string
	boundRun  bool
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: new(sync.Mutex), out: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := h.fields()
	record.Attrs(func(attr slog.Attr) bool {
		fields.add(h.group, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var line bytes.Buffer
	line.WriteString(ts.UTC().Format(time.RFC3339))
	line.WriteByte(' ')
	line.WriteString(levelLabel(record.Level))
	if id, ok := RunIDFromContext(ctx); ok && !fields.hasRun {
		fmt.Fprintf(&line, " [run %s]", shortRunID(id))
	}
	line.WriteByte(' ')
	if fields.component != "" {
		line.WriteString(fields.component)
		line.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line.WriteString(msg)
	if h.addSource && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		fmt.Fprintf(&line, " [%s:%d]", filepath.Base(frame.File), frame.Line)
	}
	line.WriteString(fields.text.String())
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := h.fields()
	for _, attr := range attrs {
		fields.add(h.group, attr)
	}
	next := *h
	next.component = fields.component
	next.boundRun = fields.hasRun
	next.bound = fields.text.String()
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group += name + "."
	return &next
}

func (h *consoleHandler) fields() *lineFields {
	f := &lineFields{component: h.component, hasRun: h.boundRun}
	f.text.WriteString(h.bound)
	return f
}

// lineFields accumulates the " key=value" tail of a console line. The first
// top-level component attribute becomes the line prefix instead.
type lineFields struct {
	text      strings.Builder
	component string
	hasRun    bool
}

func (f *lineFields) add(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			f.add(inner, member)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	key := prefix + attr.Key
	switch key {
	case FieldComponent:
		if f.component == "" {
			f.component = renderValue(attr.Value, false)
		}
		return
	case FieldRunID:
		f.hasRun = true
	}
	f.text.WriteByte(' ')
	f.text.WriteString(key)
	f.text.WriteByte('=')
	f.text.WriteString(renderValue(attr.Value, true))
}

func shortRunID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
