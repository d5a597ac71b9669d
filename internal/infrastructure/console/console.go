// Package console holds the terminal collaborators of the menu: prompts,
// colors, paging and table rendering.
package console

import (
	"fmt"
	"io"
)

// Console bundles the collaborators handlers use to talk to the user
type Console struct {
	Out    io.Writer
	Paint  *Painter
	Prompt *Prompter
	Pager  *Pager
}

// New creates a console reading from in and writing to out
func New(in io.Reader, out io.Writer, color bool, pageSize int) *Console {
	paint := NewPainter(out, color)
	prompt := NewPrompter(in, out, paint)
	return &Console{
		Out:    out,
		Paint:  paint,
		Prompt: prompt,
		Pager:  NewPager(prompt, out, paint, pageSize),
	}
}

// Printf writes plain text
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Errorf writes a red line
func (c *Console) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, c.Paint.Error(fmt.Sprintf(format, args...)))
}

// Noticef writes a blue line
func (c *Console) Noticef(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, c.Paint.Notice(fmt.Sprintf(format, args...)))
}

// Headerf writes a green line
func (c *Console) Headerf(format string, args ...interface{}) {
	fmt.Fprintln(c.Out, c.Paint.Header(fmt.Sprintf(format, args...)))
}
