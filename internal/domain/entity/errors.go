package entity

import "errors"

// Domain errors. All of them are recoverable: callers report them and
// re-prompt or return to the menu.
var (
	ErrDuplicateID       = errors.New("material id already exists")
	ErrMaterialNotFound  = errors.New("material not found")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrInvalidAmount     = errors.New("amount must be a positive value")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMaterialLocked    = errors.New("material is expired")
	ErrInvalidField      = errors.New("invalid field")
	ErrTransferCancelled = errors.New("transfer cancelled")
)
