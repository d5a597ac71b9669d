package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

// AmountSource supplies the amount of a transfer. previous holds the reason
// the last answer was rejected, or nil on the first call. Returning
// entity.ErrTransferCancelled abandons the transfer.
type AmountSource interface {
	Amount(ctx context.Context, material *entity.Material, direction entity.Direction, previous error) (int, error)
}

// AmountSourceFunc adapts a function to AmountSource
type AmountSourceFunc func(ctx context.Context, material *entity.Material, direction entity.Direction, previous error) (int, error)

// Amount calls f
func (f AmountSourceFunc) Amount(ctx context.Context, material *entity.Material, direction entity.Direction, previous error) (int, error) {
	return f(ctx, material, direction, previous)
}

// TransferService imports and exports stock. A committed transfer changes
// exactly one material quantity and appends exactly one ledger entry.
type TransferService struct {
	materials *MaterialService
	ledger    *LedgerService
	logger    logger.Logger
	metrics   Metrics
	mutex     sync.Mutex
}

// NewTransferService creates a new transfer service
func NewTransferService(materials *MaterialService, ledger *LedgerService, log logger.Logger, m Metrics) *TransferService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if m == nil {
		m = nopMetrics{}
	}

	return &TransferService{
		materials: materials,
		ledger:    ledger,
		logger:    log,
		metrics:   m,
	}
}

// Select looks up the material to transfer and rejects expired ones
func (s *TransferService) Select(ctx context.Context, materialID string) (*entity.Material, error) {
	m, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		s.reject(ctx, materialID, err)
		return nil, err
	}
	if !m.Active() {
		err := fmt.Errorf("%w: %s", entity.ErrMaterialLocked, materialID)
		s.reject(ctx, materialID, err)
		return nil, err
	}
	return m, nil
}

// CheckAmount validates an amount against the material's current stock
func CheckAmount(material *entity.Material, direction entity.Direction, amount int) error {
	if amount <= 0 {
		return entity.ErrInvalidAmount
	}
	if direction == entity.DirectionIn && material.Quantity > math.MaxInt-amount {
		return fmt.Errorf("%w: %s cannot hold more than %d %s",
			entity.ErrInvalidAmount, material.ID, math.MaxInt, material.Unit)
	}
	if direction == entity.DirectionOut && amount > material.Quantity {
		return fmt.Errorf("%w: requested %d, available %d %s",
			entity.ErrInsufficientStock, amount, material.Quantity, material.Unit)
	}
	return nil
}

// Commit applies the transfer and records it in the ledger
func (s *TransferService) Commit(ctx context.Context, materialID string, direction entity.Direction, amount int) (*entity.Transaction, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tx, err := s.commit(ctx, materialID, direction, amount)
	if err != nil {
		s.reject(ctx, materialID, err)
		return nil, err
	}

	s.metrics.TransferCommitted(direction.String(), amount)
	return tx, nil
}

func (s *TransferService) commit(ctx context.Context, materialID string, direction entity.Direction, amount int) (*entity.Transaction, error) {
	var delta int
	switch direction {
	case entity.DirectionIn:
		delta = amount
	case entity.DirectionOut:
		delta = -amount
	default:
		return nil, fmt.Errorf("%w: unknown direction %d", entity.ErrInvalidField, direction)
	}
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	ok, err := s.ledger.HasCapacity(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: ledger holds at most %d transactions", entity.ErrCapacityExceeded, s.ledger.Capacity())
	}

	if _, err := s.materials.AdjustQuantity(ctx, materialID, delta); err != nil {
		return nil, err
	}

	tx, err := s.ledger.Append(ctx, materialID, direction, amount)
	if err != nil {
		// Undo the quantity change so a failed append leaves no trace
		if _, revertErr := s.materials.adjust(ctx, materialID, -delta, false); revertErr != nil {
			s.logger.Error("Failed to revert quantity", map[string]interface{}{
				"operation_id": middleware.GetOperationID(ctx),
				"material_id":  materialID,
				"delta":        delta,
				"error":        revertErr.Error(),
			})
		}
		return nil, err
	}
	return tx, nil
}

// Execute runs a whole transfer: it selects the material, asks source for an
// amount until one is acceptable, then commits.
func (s *TransferService) Execute(ctx context.Context, materialID string, direction entity.Direction, source AmountSource) (*entity.Transaction, error) {
	material, err := s.Select(ctx, materialID)
	if err != nil {
		return nil, err
	}

	var previous error
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		amount, err := source.Amount(ctx, material, direction, previous)
		if err != nil {
			if errors.Is(err, entity.ErrTransferCancelled) {
				s.reject(ctx, materialID, err)
			}
			return nil, err
		}

		if err := CheckAmount(material, direction, amount); err != nil {
			s.reject(ctx, materialID, err)
			previous = err
			continue
		}

		tx, err := s.Commit(ctx, material.ID, direction, amount)
		if errors.Is(err, entity.ErrInvalidAmount) || errors.Is(err, entity.ErrInsufficientStock) {
			// Stock moved since the material was read; ask again with fresh numbers
			previous = err
			if material, err = s.materials.FindByID(ctx, material.ID); err != nil {
				return nil, err
			}
			continue
		}
		return tx, err
	}
}

func (s *TransferService) reject(ctx context.Context, materialID string, err error) {
	s.metrics.TransferRejected(rejectionReason(err))
	s.logger.Warn("Transfer rejected", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"material_id":  materialID,
		"error":        err.Error(),
	})
}
