package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"bookbinder/internal/deps"
	"bookbinder/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// bookFieldWidth fits the longest label check and inspect print
// ("Output directory:").
const bookFieldWidth = 18

var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// statusPrinter writes labelled report lines for check and inspect.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	fmt.Fprintln(p.out, p.paint(ansiBlue, heading))
	fmt.Fprintln(p.out, p.paint(ansiBlue, rule))
}

func (p *statusPrinter) field(label string, kind statusKind, value string) {
	fmt.Fprintln(p.out, formatStatusLine(label, kind, value, p.colorize))
}

func (p *statusPrinter) blank() {
	fmt.Fprintln(p.out)
}

func (p *statusPrinter) paint(color, text string) string {
	if !p.colorize {
		return text
	}
	return color + text + ansiReset
}

// formatStatusLine renders "  Label:   [TAG] value", colored by kind.
func formatStatusLine(label string, kind statusKind, value string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	status := "[" + style.tag + "]"
	if value != "" {
		status += " " + value
	}
	line := fmt.Sprintf("  %-*s %s", bookFieldWidth, label+":", status)
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

// dependencies prints one line per tool: the resolved path when found,
// otherwise why it is missing.
func (p *statusPrinter) dependencies(statuses []deps.Status) {
	for _, status := range statuses {
		value := status.Detail
		if status.Available {
			value = status.Resolved
		}
		p.field(status.Name, dependencyKind(status), value)
	}
}

func (p *statusPrinter) directories(results []preflight.Result) {
	for _, r := range results {
		p.field(r.Name, passKind(r.Passed), r.Detail)
	}
}

func passKind(passed bool) statusKind {
	if passed {
		return statusOK
	}
	return statusError
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
