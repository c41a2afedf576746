package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clippair/internal/config"
	"clippair/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Debug("debug message")
}

func TestNewFromConfigMirrorsToJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "info"
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "clippair.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("pairs written", logging.Int("pairs", 3))

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", content, err)
	}
	if line["msg"] != "pairs written" || line["level"] != "info" {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["pairs"] != float64(3) {
		t.Fatalf("expected pairs=3, got %v", line["pairs"])
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "pairing").Info("candidates built", logging.String("scope", "cut in"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO pairing: candidates built") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, `scope="cut in"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be disabled")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info to be enabled")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := logging.WithRunID(context.Background(), "run-123")
	ctx = logging.WithPolicy(ctx, "tournament")

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, base).Info("contextual log")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line[logging.FieldRunID] != "run-123" {
		t.Fatalf("expected run id field, got %v", line)
	}
	if line[logging.FieldPolicy] != "tournament" {
		t.Fatalf("expected policy field, got %v", line)
	}
}

func TestWarnInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.Warn(context.Background(), logger, "collision", "catalogue_collision", logging.String(logging.FieldImpact, "entry dropped"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line[logging.FieldEventType] != "catalogue_collision" {
		t.Fatalf("expected event type, got %v", line)
	}
	if line[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error hint")
	}
	if line[logging.FieldImpact] != "entry dropped" {
		t.Fatalf("expected caller impact to be kept, got %v", line[logging.FieldImpact])
	}
}

func TestTeeLoggerRespectsHandlerLevels(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	info := slog.New(slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	debug := slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := logging.TeeLogger(info, debug)
	logger.Debug("debug only")
	if infoBuf.Len() != 0 {
		t.Fatalf("info handler received debug record: %q", infoBuf.String())
	}
	if debugBuf.Len() == 0 {
		t.Fatal("expected debug handler to receive record")
	}

	logger.Info("both")
	if infoBuf.Len() == 0 {
		t.Fatal("expected info handler to receive info record")
	}
}

func TestTeeLoggerNilBase(t *testing.T) {
	if logger := logging.TeeLogger(nil); logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected no-op logger when no handlers are given")
	}
}

func TestJSONLoggerTagsRecordsFromRunContext(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithPolicy(logging.WithRunID(context.Background(), "run-42"), "baseline")

	logger.InfoContext(ctx, "pairs generated", logging.Int("pairs", 2))
	logging.WithContext(ctx, logger).InfoContext(ctx, "bound logger")
	logger.Info("no run")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d: %q", len(lines), content)
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode first line: %v", err)
	}
	if first[logging.FieldRunID] != "run-42" || first[logging.FieldPolicy] != "baseline" {
		t.Fatalf("expected run fields from context, got %v", first)
	}
	if ts, _ := first["ts"].(string); !strings.Contains(ts, ".") {
		t.Fatalf("expected millisecond timestamp, got %q", first["ts"])
	}
	if n := strings.Count(lines[1], `"run_id"`); n != 1 {
		t.Fatalf("expected run_id once on bound logger line, got %d: %s", n, lines[1])
	}
	if strings.Contains(lines[2], "run_id") {
		t.Fatalf("expected no run fields without run context: %s", lines[2])
	}
}

func TestTeeLoggerMirrorsRunContextToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.File = filepath.Join(t.TempDir(), "clippair.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "run-7")
	logger.WarnContext(ctx, "run not recorded")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"run_id":"run-7"`) {
		t.Fatalf("expected mirrored line to carry run_id: %s", content)
	}
}

func TestConsoleLoggerTagsRunFromContext(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-run.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")

	pairing := logging.NewComponentLogger(logger, "pairing")
	pairing.InfoContext(ctx, "pairs generated", logging.Int("pairs", 2))
	logging.WithContext(ctx, pairing).InfoContext(ctx, "bound")
	pairing.WithGroup("scope").Info("grouped", logging.String("variant", "v1"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", content)
	}
	if !strings.Contains(lines[0], "INFO [run 0f1e2d3c] pairing: pairs generated pairs=2") {
		t.Fatalf("expected short run tag, got %q", lines[0])
	}
	if strings.Contains(lines[1], "[run ") || !strings.Contains(lines[1], "run_id=0f1e2d3c-") {
		t.Fatalf("expected bound run_id instead of tag, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "pairing: grouped scope.variant=v1") {
		t.Fatalf("expected dotted group key, got %q", lines[2])
	}
}
