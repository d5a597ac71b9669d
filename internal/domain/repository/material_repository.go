// Package repository defines the storage ports of the inventory
package repository

import (
	"context"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
)

// MaterialRepository defines the interface for material storage.
// Implementations keep materials in a stable order: insertion order until
// Reorder is called.
type MaterialRepository interface {
	// Insert appends a material. It fails with entity.ErrDuplicateID if the id is taken.
	Insert(ctx context.Context, material *entity.Material) error

	// FindByID retrieves a material by its exact identifier
	FindByID(ctx context.Context, id string) (*entity.Material, error)

	// Update replaces a stored material with the same identifier
	Update(ctx context.Context, material *entity.Material) error

	// List returns every material in store order
	List(ctx context.Context) ([]*entity.Material, error)

	// Count returns the number of stored materials
	Count(ctx context.Context) (int, error)

	// Reorder rearranges the store to follow ids, which must be a permutation
	// of the stored identifiers
	Reorder(ctx context.Context, ids []string) error
}
