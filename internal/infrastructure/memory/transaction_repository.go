package memory

import (
	"context"
	"sync"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
)

// TransactionRepository provides in-memory, append-only ledger storage
type TransactionRepository struct {
	transactions []entity.Transaction
	mutex        sync.RWMutex
}

// NewTransactionRepository creates a new in-memory transaction repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{transactions: []entity.Transaction{}}
}

// Verify interface compliance
var _ repository.TransactionRepository = (*TransactionRepository)(nil)

// Append stores a copy of the transaction
func (r *TransactionRepository) Append(ctx context.Context, tx *entity.Transaction) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.transactions = append(r.transactions, *tx)
	return nil
}

// List returns all transactions in chronological order
func (r *TransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*entity.Transaction, 0, len(r.transactions))
	for i := range r.transactions {
		tx := r.transactions[i]
		out = append(out, &tx)
	}
	return out, nil
}

// Last returns the most recent transaction or nil
func (r *TransactionRepository) Last(ctx context.Context) (*entity.Transaction, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if len(r.transactions) == 0 {
		return nil, nil
	}
	tx := r.transactions[len(r.transactions)-1]
	return &tx, nil
}

// Count returns the number of stored transactions
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.transactions), nil
}
