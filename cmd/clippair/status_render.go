package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	tag    string
	colors text.Colors
}{
	statusInfo:  {"INFO", text.Colors{text.FgBlue}},
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusWarn:  {"WARN", text.Colors{text.FgYellow}},
	statusError: {"ERROR", text.Colors{text.FgRed}},
}

// statusPrinter writes the aligned "Label: [TAG] detail" lines used by check.
// Colour is only applied when the destination is a terminal.
type statusPrinter struct {
	out        io.Writer
	colorize   bool
	labelWidth int
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out), labelWidth: 18}
}

func (p *statusPrinter) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	fmt.Fprintln(p.out, p.paint(statusInfo, heading))
	fmt.Fprintln(p.out, p.paint(statusInfo, rule))
}

func (p *statusPrinter) line(label string, kind statusKind, detail string) {
	fmt.Fprintln(p.out, p.paint(kind, p.format(label, kind, detail)))
}

func (p *statusPrinter) format(label string, kind statusKind, detail string) string {
	tag := "[" + statusStyles[kind].tag + "]"
	if detail != "" {
		tag += " " + detail
	}
	return fmt.Sprintf("  %-*s %s", p.labelWidth, label+":", tag)
}

func (p *statusPrinter) paint(kind statusKind, s string) string {
	if !p.colorize {
		return s
	}
	return statusStyles[kind].colors.Sprint(s)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
