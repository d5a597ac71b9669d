// Package memory provides slice-backed repositories
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/match"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
)

// MaterialRepository provides in-memory material storage
type MaterialRepository struct {
	materials []*entity.Material
	mutex     sync.RWMutex
}

// NewMaterialRepository creates a new in-memory material repository
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{materials: []*entity.Material{}}
}

// Verify interface compliance
var _ repository.MaterialRepository = (*MaterialRepository)(nil)

// Insert appends a material to the repository
func (r *MaterialRepository) Insert(ctx context.Context, material *entity.Material) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.indexOf(material.ID) != -1 {
		return fmt.Errorf("%w: %s", entity.ErrDuplicateID, material.ID)
	}
	r.materials = append(r.materials, material.Clone())
	return nil
}

// FindByID retrieves a material by its exact identifier
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	idx := r.indexOf(id)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", entity.ErrMaterialNotFound, id)
	}
	return r.materials[idx].Clone(), nil
}

// Update replaces the stored material with the same identifier
func (r *MaterialRepository) Update(ctx context.Context, material *entity.Material) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	idx := r.indexOf(material.ID)
	if idx == -1 {
		return fmt.Errorf("%w: %s", entity.ErrMaterialNotFound, material.ID)
	}
	r.materials[idx] = material.Clone()
	return nil
}

// List returns copies of all materials in store order
func (r *MaterialRepository) List(ctx context.Context) ([]*entity.Material, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*entity.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m.Clone())
	}
	return out, nil
}

// Count returns the number of stored materials
func (r *MaterialRepository) Count(ctx context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.materials), nil
}

// Reorder rearranges materials to follow ids
func (r *MaterialRepository) Reorder(ctx context.Context, ids []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(ids) != len(r.materials) {
		return fmt.Errorf("reorder expects %d ids, got %d", len(r.materials), len(ids))
	}

	reordered := make([]*entity.Material, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("reorder: %w: %s", entity.ErrDuplicateID, id)
		}
		seen[id] = struct{}{}

		idx := r.indexOf(id)
		if idx == -1 {
			return fmt.Errorf("reorder: %w: %s", entity.ErrMaterialNotFound, id)
		}
		reordered = append(reordered, r.materials[idx])
	}
	r.materials = reordered
	return nil
}

// indexOf is a linear scan; first exact hit wins
func (r *MaterialRepository) indexOf(id string) int {
	for i, m := range r.materials {
		if match.Exact(m.ID, id) {
			return i
		}
	}
	return -1
}
