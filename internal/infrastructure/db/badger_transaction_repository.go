package db

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const (
	transactionPrefix   = "tx:"
	transactionCountKey = "meta:tx-count"
)

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB.
// Keys are "tx:" followed by a big-endian sequence number, so key order is
// append order.
type BadgerTransactionRepository struct {
	db *badger.DB
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) *BadgerTransactionRepository {
	return &BadgerTransactionRepository{db: db}
}

// Verify interface compliance
var _ repository.TransactionRepository = (*BadgerTransactionRepository)(nil)

func transactionKey(seq uint64) []byte {
	key := make([]byte, len(transactionPrefix)+8)
	copy(key, transactionPrefix)
	binary.BigEndian.PutUint64(key[len(transactionPrefix):], seq)
	return key
}

// Append saves a transaction after every stored one
func (r *BadgerTransactionRepository) Append(ctx context.Context, tx *entity.Transaction) error {
	// Serialize transaction to JSON
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		count, err := readCount(txn)
		if err != nil {
			return err
		}
		count++

		if err := txn.Set(transactionKey(count), data); err != nil {
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, count)
		return txn.Set([]byte(transactionCountKey), buf)
	})
	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

// List returns all transactions in chronological order
func (r *BadgerTransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	var txs []*entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(transactionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var tx entity.Transaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			}); err != nil {
				return err
			}
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Last returns the most recent transaction or nil when the ledger is empty
func (r *BadgerTransactionRepository) Last(ctx context.Context) (*entity.Transaction, error) {
	var tx *entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		count, err := readCount(txn)
		if err != nil || count == 0 {
			return err
		}

		item, err := txn.Get(transactionKey(count))
		if err != nil {
			return err
		}

		tx = &entity.Transaction{}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, tx)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve last transaction: %w", err)
	}
	return tx, nil
}

// Count returns the number of stored transactions
func (r *BadgerTransactionRepository) Count(ctx context.Context) (int, error) {
	var count uint64
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = readCount(txn)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(count), nil
}

func readCount(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(transactionCountKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt transaction counter")
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	return count, err
}
