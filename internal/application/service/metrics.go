package service

import (
	"errors"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
)

// Metrics receives service events. *metrics.Recorder satisfies it.
type Metrics interface {
	MaterialCreated()
	StatusToggled()
	TransferCommitted(direction string, amount int)
	TransferRejected(reason string)
}

type nopMetrics struct{}

func (nopMetrics) MaterialCreated() {}
func (nopMetrics) StatusToggled() {}
func (nopMetrics) TransferCommitted(string, int) {}
func (nopMetrics) TransferRejected(string) {}

// rejectionReason maps a transfer error onto a metric label
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrMaterialNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrMaterialLocked):
		return "material_locked"
	case errors.Is(err, entity.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, entity.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, entity.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, entity.ErrTransferCancelled):
		return "cancelled"
	default:
		return "other"
	}
}
