package console

import (
	"fmt"
	"io"
)

// DefaultPageSize is the number of rows per page when none is configured
const DefaultPageSize = 10

// Pager menu options
const (
	pageExit = 0
	pageNext = 1
	pagePrev = 2
	pageJump = 3
)

// RenderFunc writes rows [from, to) of a list
type RenderFunc func(w io.Writer, from, to int)

// Pager shows a list one page at a time
type Pager struct {
	prompt *Prompter
	out    io.Writer
	paint  *Painter
	size   int
}

// NewPager creates a pager showing size rows per page
func NewPager(prompt *Prompter, out io.Writer, paint *Painter, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{prompt: prompt, out: out, paint: paint, size: size}
}

// Size returns the number of rows per page
func (p *Pager) Size() int {
	return p.size
}

// Pages returns the number of pages needed for total rows
func (p *Pager) Pages(total int) int {
	return (total + p.size - 1) / p.size
}

// Show pages through total rows until the user exits
func (p *Pager) Show(total int, render RenderFunc) error {
	pages := p.Pages(total)
	page := 0

	for {
		from := page * p.size
		to := min(from+p.size, total)
		render(p.out, from, to)
		fmt.Fprintf(p.out, "Page %d / %d\n\n", page+1, pages)

		fmt.Fprintln(p.out, "1. Next page")
		fmt.Fprintln(p.out, "2. Previous page")
		fmt.Fprintln(p.out, "3. Go to page")
		fmt.Fprintln(p.out, "0. Exit")

		choice, err := p.prompt.Choice("Your choice: ", pageExit, pageJump)
		if err != nil {
			return err
		}

		switch choice {
		case pageExit:
			return nil
		case pageNext:
			if page < pages-1 {
				page++
			} else {
				fmt.Fprintln(p.out, p.paint.Notice("Already on the last page."))
			}
		case pagePrev:
			if page > 0 {
				page--
			} else {
				fmt.Fprintln(p.out, p.paint.Notice("Already on the first page."))
			}
		case pageJump:
			n, err := p.prompt.Choice(fmt.Sprintf("Page (1-%d): ", pages), 1, pages)
			if err != nil {
				return err
			}
			page = n - 1
		}
	}
}
