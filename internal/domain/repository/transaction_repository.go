package repository

import (
	"context"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
)

// TransactionRepository defines the interface for ledger storage.
// It is append-only.
type TransactionRepository interface {
	// Append stores a transaction after every previously stored one
	Append(ctx context.Context, transaction *entity.Transaction) error

	// List returns every transaction in chronological order
	List(ctx context.Context) ([]*entity.Transaction, error)

	// Last returns the most recent transaction, or nil if the ledger is empty
	Last(ctx context.Context) (*entity.Transaction, error)

	// Count returns the number of stored transactions
	Count(ctx context.Context) (int, error)
}
