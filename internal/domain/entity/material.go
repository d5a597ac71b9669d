package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field bounds for material text fields.
const (
	MaxIDLength   = 9
	MaxNameLength = 49
	MaxUnitLength = 9
)

// Status is the availability state of a material
type Status int

const (
	// StatusActive is the zero value so new materials default to active
	StatusActive Status = iota
	StatusExpired
)

// String returns the display text of the status
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Toggle flips Active and Expired
func (s Status) Toggle() Status {
	if s == StatusExpired {
		return StatusActive
	}
	return StatusExpired
}

// ParseStatus accepts "active"/"expired" (any case) as well as "1"/"0"
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "active":
		return StatusActive, nil
	case "0", "expired":
		return StatusExpired, nil
	default:
		return StatusActive, fmt.Errorf("%w: unknown status %q", ErrInvalidField, s)
	}
}

// Material represents a tracked raw material
type Material struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
	Status   Status `json:"status"`
}

// MaterialUpdate carries the fields to replace. Nil fields are left unchanged.
type MaterialUpdate struct {
	Name     *string
	Unit     *string
	Quantity *int
}

// Empty reports whether the update changes nothing
func (u MaterialUpdate) Empty() bool {
	return u.Name == nil && u.Unit == nil && u.Quantity == nil
}

// Active reports whether the material can take part in transfers
func (m *Material) Active() bool {
	return m.Status == StatusActive
}

// Clone returns a copy detached from the store
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Validate ensures the material meets all requirements
func (m *Material) Validate() error {
	if err := ValidateText("id", m.ID, MaxIDLength); err != nil {
		return err
	}
	if strings.ContainsAny(m.ID, " \t") {
		return fmt.Errorf("%w: id must not contain whitespace", ErrInvalidField)
	}
	if err := ValidateText("name", m.Name, MaxNameLength); err != nil {
		return err
	}
	if err := ValidateText("unit", m.Unit, MaxUnitLength); err != nil {
		return err
	}
	if m.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative, got %d", ErrInvalidField, m.Quantity)
	}
	if m.Status != StatusActive && m.Status != StatusExpired {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidField, m.Status)
	}
	return nil
}

// Apply validates the update against the material and replaces the supplied fields
func (m *Material) Apply(u MaterialUpdate) error {
	next := *m
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Unit != nil {
		next.Unit = *u.Unit
	}
	if u.Quantity != nil {
		next.Quantity = *u.Quantity
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*m = next
	return nil
}

// ValidateText rejects blank values and values longer than max characters
func ValidateText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidField, field)
	}
	if n := utf8.RuneCountInString(value); n > max {
		return fmt.Errorf("%w: %s must not exceed %d characters, got %d", ErrInvalidField, field, max, n)
	}
	return nil
}
