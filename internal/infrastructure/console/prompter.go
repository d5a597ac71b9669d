package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
)

// Prompter reads validated answers from the user. Every method re-prompts on
// invalid input and returns io.EOF once input is exhausted.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	paint   *Painter
}

// NewPrompter creates a prompter reading lines from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer, paint *Painter) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
		paint:   paint,
	}
}

// Raw prints label and returns the next input line with surrounding spaces removed
func (p *Prompter) Raw(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Line asks for a non-blank value of at most max characters
func (p *Prompter) Line(label, field string, max int) (string, error) {
	for {
		v, err := p.Raw(label)
		if err != nil {
			return "", err
		}
		if err := entity.ValidateText(field, v, max); err != nil {
			p.invalid(err)
			continue
		}
		return v, nil
	}
}

// ID asks for a material id: like Line, but spaces are not allowed
func (p *Prompter) ID(label string) (string, error) {
	for {
		v, err := p.Raw(label)
		if err != nil {
			return "", err
		}
		if p.validID(v) {
			return v, nil
		}
	}
}

// OptionalID is like ID but returns an empty string when the answer is blank
func (p *Prompter) OptionalID(label string) (string, error) {
	for {
		v, err := p.Raw(label)
		if err != nil || v == "" {
			return "", err
		}
		if p.validID(v) {
			return v, nil
		}
	}
}

func (p *Prompter) validID(v string) bool {
	if err := entity.ValidateText("id", v, entity.MaxIDLength); err != nil {
		p.invalid(err)
		return false
	}
	if strings.ContainsAny(v, " \t") {
		p.Errorf("ID must not contain spaces, please type again.")
		return false
	}
	return true
}

// Int asks for an integer greater or equal zero
func (p *Prompter) Int(label, field string) (int, error) {
	for {
		v, err := p.Raw(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			p.Errorf("Invalid %s, please type again.", field)
			continue
		}
		if n < 0 {
			p.Errorf("%s must be greater or equal zero, please type again.", field)
			continue
		}
		return n, nil
	}
}

// Status asks for a status; blank means Active, 1 Active and 0 Expired
func (p *Prompter) Status(label string) (entity.Status, error) {
	for {
		v, err := p.Raw(label)
		if err != nil {
			return entity.StatusActive, err
		}
		status, err := entity.ParseStatus(v)
		if err != nil {
			p.Errorf("Invalid status, type 1 (Active) or 0 (Expired).")
			continue
		}
		return status, nil
	}
}

// Choice asks for an integer between min and max inclusive
func (p *Prompter) Choice(label string, min, max int) (int, error) {
	for {
		v, err := p.Raw(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < min || n > max {
			p.Errorf("Invalid option, please choose %d-%d.", min, max)
			continue
		}
		return n, nil
	}
}

// Errorf prints a red error line
func (p *Prompter) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.paint.Error(fmt.Sprintf(format, args...)))
}

func (p *Prompter) invalid(err error) {
	msg := err.Error()
	if errors.Is(err, entity.ErrInvalidField) {
		msg = strings.TrimPrefix(msg, entity.ErrInvalidField.Error()+": ")
	}
	p.Errorf("Invalid input: %s, please type again.", msg)
}
