package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const (
	materialPrefix   = "material:"
	materialOrderKey = "meta:material-order"
)

// BadgerMaterialRepository implements the material repository interface using BadgerDB.
// Each material is stored as JSON under its own key; store order is kept as a
// JSON list of ids under a separate key.
type BadgerMaterialRepository struct {
	db *badger.DB
}

// NewBadgerMaterialRepository creates a new BadgerDB material repository
func NewBadgerMaterialRepository(db *badger.DB) *BadgerMaterialRepository {
	return &BadgerMaterialRepository{db: db}
}

// Verify interface compliance
var _ repository.MaterialRepository = (*BadgerMaterialRepository)(nil)

func materialKey(id string) []byte {
	return []byte(materialPrefix + id)
}

// Insert saves a new material and appends its id to the store order
func (r *BadgerMaterialRepository) Insert(ctx context.Context, m *entity.Material) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal material: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(materialKey(m.ID))
		if err == nil {
			return fmt.Errorf("%w: %s", entity.ErrDuplicateID, m.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		order = append(order, m.ID)

		if err := txn.Set(materialKey(m.ID), data); err != nil {
			return err
		}
		return writeOrder(txn, order)
	})
	if errors.Is(err, entity.ErrDuplicateID) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to store material: %w", err)
	}
	return nil
}

// FindByID retrieves a material by its unique identifier
func (r *BadgerMaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var m *entity.Material

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = getMaterial(txn, id)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrMaterialNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve material: %w", err)
	}
	return m, nil
}

// Update replaces an existing material
func (r *BadgerMaterialRepository) Update(ctx context.Context, m *entity.Material) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal material: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(materialKey(m.ID)); err != nil {
			return err
		}
		return txn.Set(materialKey(m.ID), data)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", entity.ErrMaterialNotFound, m.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	return nil
}

// List returns every material in store order
func (r *BadgerMaterialRepository) List(ctx context.Context) ([]*entity.Material, error) {
	var materials []*entity.Material

	err := r.db.View(func(txn *badger.Txn) error {
		order, err := readOrder(txn)
		if err != nil {
			return err
		}

		materials = make([]*entity.Material, 0, len(order))
		for _, id := range order {
			m, err := getMaterial(txn, id)
			if err != nil {
				return fmt.Errorf("material %s: %w", id, err)
			}
			materials = append(materials, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

// Count returns the number of stored materials
func (r *BadgerMaterialRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		order, err := readOrder(txn)
		n = len(order)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return n, nil
}

// Reorder rewrites the store order
func (r *BadgerMaterialRepository) Reorder(ctx context.Context, ids []string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		if len(ids) != len(order) {
			return fmt.Errorf("reorder expects %d ids, got %d", len(order), len(ids))
		}

		known := make(map[string]bool, len(order))
		for _, id := range order {
			known[id] = true
		}
		for _, id := range ids {
			if !known[id] {
				return fmt.Errorf("reorder: %w: %s", entity.ErrMaterialNotFound, id)
			}
			// each id may be used once
			known[id] = false
		}

		return writeOrder(txn, ids)
	})
}

func getMaterial(txn *badger.Txn, id string) (*entity.Material, error) {
	item, err := txn.Get(materialKey(id))
	if err != nil {
		return nil, err
	}

	var m entity.Material
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &m)
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

func readOrder(txn *badger.Txn) ([]string, error) {
	item, err := txn.Get([]byte(materialOrderKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &order)
	})
	return order, err
}

func writeOrder(txn *badger.Txn, order []string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return txn.Set([]byte(materialOrderKey), data)
}
