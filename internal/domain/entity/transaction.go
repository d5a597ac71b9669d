package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the display layout of transaction dates (DD/MM/YYYY)
const DateLayout = "02/01/2006"

// Direction is the movement direction of a transfer
type Direction int

const (
	// DirectionIn is an import that adds stock
	DirectionIn Direction = iota + 1
	// DirectionOut is an export that removes stock
	DirectionOut
)

// String returns the display text of the direction
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection accepts "in"/"out" in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN":
		return DirectionIn, nil
	case "OUT":
		return DirectionOut, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidField, s)
	}
}

// Transaction represents one immutable stock movement
type Transaction struct {
	ID         string    `json:"id"`
	MaterialID string    `json:"material_id"`
	Direction  Direction `json:"direction"`
	Amount     int       `json:"amount"`
	Date       time.Time `json:"date"`
}

// DisplayDate formats the date as DD/MM/YYYY
func (t *Transaction) DisplayDate() string {
	return t.Date.Format(DateLayout)
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: transaction id cannot be empty", ErrInvalidField)
	}
	if err := ValidateText("material id", t.MaterialID, MaxIDLength); err != nil {
		return err
	}
	if t.Direction != DirectionIn && t.Direction != DirectionOut {
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidField, t.Direction)
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction date cannot be empty", ErrInvalidField)
	}
	return nil
}
