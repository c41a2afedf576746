package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
)

func TestStatusPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := newStatusPrinter(&buf)
	p.section(" Preflight ")
	p.line("Catalogue", statusError, "missing")
	p.line("Pivots", statusWarn, "")

	want := strings.Join([]string{
		"== Preflight ==",
		"---------------",
		"  Catalogue:         [ERROR] missing",
		"  Pivots:            [WARN]",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestStatusPrinterColorsWholeLine(t *testing.T) {
	var buf bytes.Buffer
	p := &statusPrinter{out: &buf, colorize: true, labelWidth: 6}
	p.line("Output", statusOK, "writable")

	want := text.Colors{text.FgGreen}.Sprint("  Output: [OK] writable") + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
