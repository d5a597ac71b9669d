package console

import (
	"io"

	"github.com/mattn/go-isatty"
)

// ANSI escape sequences
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
)

// Painter colors console text. A disabled painter returns text unchanged.
type Painter struct {
	enabled bool
}

// NewPainter enables colors when color is requested and w is a terminal
func NewPainter(w io.Writer, color bool) *Painter {
	return &Painter{enabled: color && IsTerminal(w)}
}

// IsTerminal reports whether w is a terminal (or a Cygwin/MSYS pty)
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Enabled reports whether escape sequences are emitted
func (p *Painter) Enabled() bool {
	return p != nil && p.enabled
}

func (p *Painter) paint(code, s string) string {
	if !p.Enabled() {
		return s
	}
	return code + s + ansiReset
}

// Error paints s red
func (p *Painter) Error(s string) string { return p.paint(ansiRed, s) }

// Header paints s green
func (p *Painter) Header(s string) string { return p.paint(ansiGreen, s) }

// Item paints s yellow
func (p *Painter) Item(s string) string { return p.paint(ansiYellow, s) }

// Notice paints s blue
func (p *Painter) Notice(s string) string { return p.paint(ansiBlue, s) }
