package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/match"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultTransactionCapacity is the maximum number of ledger entries
	DefaultTransactionCapacity = 500
	// DefaultTransactionPrefix prefixes every transaction id
	DefaultTransactionPrefix = "T"
)

// LedgerService owns the transaction history and hands out sequential
// transaction ids of the form <prefix><counter, at least 3 digits>.
type LedgerService struct {
	repo     repository.TransactionRepository
	prefix   string
	capacity int
	clock    clockwork.Clock
	logger   logger.Logger

	mutex   sync.Mutex
	counter int
}

// NewLedgerService creates a ledger whose counter starts at 1
func NewLedgerService(repo repository.TransactionRepository, prefix string, capacity int, clock clockwork.Clock, log logger.Logger) *LedgerService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if prefix == "" {
		prefix = DefaultTransactionPrefix
	}
	if capacity <= 0 {
		capacity = DefaultTransactionCapacity
	}

	return &LedgerService{
		repo:     repo,
		prefix:   prefix,
		capacity: capacity,
		clock:    clock,
		logger:   log,
		counter:  1,
	}
}

// Prefix returns the transaction id prefix
func (s *LedgerService) Prefix() string {
	return s.prefix
}

// Capacity returns the maximum number of transactions
func (s *LedgerService) Capacity() int {
	return s.capacity
}

// Init seeds the counter from the last stored transaction, if any
func (s *LedgerService) Init(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	last, err := s.repo.Last(ctx)
	if err != nil {
		return err
	}
	if last == nil {
		s.counter = 1
		return nil
	}

	n, err := s.parseID(last.ID)
	if err != nil {
		return err
	}
	s.counter = n + 1
	return nil
}

// Restore preloads historical transactions. Their ids must carry the ledger
// prefix and strictly increase; the counter continues after the last one.
func (s *LedgerService) Restore(ctx context.Context, history []*entity.Transaction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count+len(history) > s.capacity {
		return fmt.Errorf("%w: ledger holds at most %d transactions", entity.ErrCapacityExceeded, s.capacity)
	}

	for _, tx := range history {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		n, err := s.parseID(tx.ID)
		if err != nil {
			return err
		}
		if n < s.counter {
			return fmt.Errorf("transaction %s: id must be greater than %s", tx.ID, s.formatID(s.counter-1))
		}
		if err := s.repo.Append(ctx, tx); err != nil {
			return err
		}
		s.counter = n + 1
	}

	s.logger.Info("Ledger restored", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"restored":     len(history),
		"next_id":      s.formatID(s.counter),
	})
	return nil
}

// NextID formats the current counter and then increments it
func (s *LedgerService) NextID() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.nextID()
}

// PeekID returns the id the next append will receive
func (s *LedgerService) PeekID() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.formatID(s.counter)
}

// HasCapacity reports whether another transaction can be appended
func (s *LedgerService) HasCapacity(ctx context.Context) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count < s.capacity, nil
}

// Append records a transfer dated now under the next transaction id
func (s *LedgerService) Append(ctx context.Context, materialID string, direction entity.Direction, amount int) (*entity.Transaction, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= s.capacity {
		return nil, fmt.Errorf("%w: ledger holds at most %d transactions", entity.ErrCapacityExceeded, s.capacity)
	}

	tx := &entity.Transaction{
		ID:         s.formatID(s.counter),
		MaterialID: materialID,
		Direction:  direction,
		Amount:     amount,
		Date:       s.clock.Now(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}
	s.counter++

	s.logger.Info("Transaction recorded", map[string]interface{}{
		"operation_id":   middleware.GetOperationID(ctx),
		"transaction_id": tx.ID,
		"material_id":    materialID,
		"direction":      direction.String(),
		"amount":         amount,
	})
	return tx, nil
}

// FindByMaterialID returns the transactions of a material in chronological
// order. Material ids are compared ignoring case.
func (s *LedgerService) FindByMaterialID(ctx context.Context, materialID string) ([]*entity.Transaction, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var found []*entity.Transaction
	for _, tx := range all {
		if match.EqualFold(tx.MaterialID, materialID) {
			found = append(found, tx)
		}
	}
	return found, nil
}

// List returns the whole history in chronological order
func (s *LedgerService) List(ctx context.Context) ([]*entity.Transaction, error) {
	return s.repo.List(ctx)
}

func (s *LedgerService) nextID() string {
	id := s.formatID(s.counter)
	s.counter++
	return id
}

func (s *LedgerService) formatID(n int) string {
	return fmt.Sprintf("%s%03d", s.prefix, n)
}

func (s *LedgerService) parseID(id string) (int, error) {
	digits, ok := strings.CutPrefix(id, s.prefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("%w: transaction id %q does not start with %q", entity.ErrInvalidField, id, s.prefix)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || strings.ContainsAny(digits, "+-") {
		return 0, fmt.Errorf("%w: transaction id %q has no numeric suffix", entity.ErrInvalidField, id)
	}
	return n, nil
}
