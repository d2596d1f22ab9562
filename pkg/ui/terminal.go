// Package ui prints the CLI's human readable status lines.
package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI colour sequences
const (
	cyan    = "\033[36m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	green   = "\033[32m"
	magenta = "\033[35m"
	reset   = "\033[0m"
)

// Printer writes status lines, coloured when out is a terminal
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter colours output only when out is a terminal and NO_COLOR is unset
func NewPrinter(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: out, color: color}
}

// SetColor forces colour on or off
func (p *Printer) SetColor(enabled bool) {
	p.color = enabled
}

func (p *Printer) paint(code, text string) string {
	if !p.color {
		return text
	}
	return code + text + reset
}

// Error prints msg, and detail when given, in red
func (p *Printer) Error(msg string, detail ...interface{}) {
	if len(detail) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, detail[0])
	}
	fmt.Fprintln(p.out, p.paint(red, msg))
}

// Warning prints msg in yellow
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, p.paint(yellow, msg))
}

// Success prints msg in green
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.paint(green, msg))
}

// Info prints a label/value pair
func (p *Printer) Info(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(cyan, label), p.paint(yellow, value))
}

// Highlight prints a heading in magenta
func (p *Printer) Highlight(msg string) {
	fmt.Fprintln(p.out, p.paint(magenta, msg))
}
