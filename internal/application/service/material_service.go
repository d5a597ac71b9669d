// Package service internal/application/service/material_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/damon-houk/material-inventory/internal/domain/entity"
	"github.com/damon-houk/material-inventory/internal/domain/match"
	"github.com/damon-houk/material-inventory/internal/domain/repository"
	"github.com/damon-houk/material-inventory/internal/infrastructure/logger"
	"github.com/damon-houk/material-inventory/internal/infrastructure/middleware"
)

// DefaultMaterialCapacity is the maximum number of live materials
const DefaultMaterialCapacity = 100

// MaterialService owns the material collection and its invariants:
// unique ids, non-negative quantities and the capacity cap.
type MaterialService struct {
	repo     repository.MaterialRepository
	capacity int
	logger   logger.Logger
	metrics  Metrics
	mutex    sync.RWMutex
}

// NewMaterialService creates a new material service
func NewMaterialService(repo repository.MaterialRepository, capacity int, log logger.Logger, m Metrics) *MaterialService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if m == nil {
		m = nopMetrics{}
	}
	if capacity <= 0 {
		capacity = DefaultMaterialCapacity
	}

	return &MaterialService{
		repo:     repo,
		capacity: capacity,
		logger:   log,
		metrics:  m,
	}
}

// Capacity returns the maximum number of materials
func (s *MaterialService) Capacity() int {
	return s.capacity
}

// Create validates and appends a new material, returning its position
func (s *MaterialService) Create(ctx context.Context, id, name, unit string, quantity int, status entity.Status) (int, error) {
	operationID := middleware.GetOperationID(ctx)

	material := &entity.Material{
		ID:       id,
		Name:     name,
		Unit:     unit,
		Quantity: quantity,
		Status:   status,
	}
	if err := material.Validate(); err != nil {
		return -1, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return -1, fmt.Errorf("failed to count materials: %w", err)
	}
	if count >= s.capacity {
		s.logger.Warn("Material store is full", map[string]interface{}{
			"operation_id": operationID,
			"capacity":     s.capacity,
		})
		return -1, fmt.Errorf("%w: material list reached max size (%d)", entity.ErrCapacityExceeded, s.capacity)
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return -1, err
	}
	if exists {
		return -1, fmt.Errorf("%w: %s", entity.ErrDuplicateID, id)
	}

	if err := s.repo.Insert(ctx, material); err != nil {
		return -1, err
	}

	s.metrics.MaterialCreated()
	s.logger.Info("Material created", map[string]interface{}{
		"operation_id": operationID,
		"material_id":  id,
		"position":     count,
	})

	return count, nil
}

// FindByID returns the material with exactly this id
func (s *MaterialService) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.repo.FindByID(ctx, id)
}

// FindByNameSubstring returns materials whose name contains text, ignoring
// case, in store order
func (s *MaterialService) FindByNameSubstring(ctx context.Context, text string) ([]*entity.Material, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var found []*entity.Material
	for _, m := range all {
		if match.ContainsFold(m.Name, text) {
			found = append(found, m)
		}
	}
	return found, nil
}

// FindByIDOrName tries an exact id lookup first and falls back to a name search
func (s *MaterialService) FindByIDOrName(ctx context.Context, text string) ([]*entity.Material, error) {
	m, err := s.FindByID(ctx, text)
	if err == nil {
		return []*entity.Material{m}, nil
	}
	if !errors.Is(err, entity.ErrMaterialNotFound) {
		return nil, err
	}
	return s.FindByNameSubstring(ctx, text)
}

// List returns every material in store order
func (s *MaterialService) List(ctx context.Context) ([]*entity.Material, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.repo.List(ctx)
}

// Count returns the number of materials
func (s *MaterialService) Count(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.repo.Count(ctx)
}

// Update replaces the supplied fields of a material
func (s *MaterialService) Update(ctx context.Context, id string, update entity.MaterialUpdate) (*entity.Material, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return m, nil
	}
	if err := m.Apply(update); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Material updated", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"material_id":  id,
	})
	return m, nil
}

// ToggleStatus flips a material between Active and Expired
func (s *MaterialService) ToggleStatus(ctx context.Context, id string) (entity.Status, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return entity.StatusActive, err
	}
	m.Status = m.Status.Toggle()
	if err := s.repo.Update(ctx, m); err != nil {
		return entity.StatusActive, err
	}

	s.metrics.StatusToggled()
	s.logger.Info("Material status toggled", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"material_id":  id,
		"status":       m.Status.String(),
	})
	return m.Status, nil
}

// SortByName stably sorts the store by name, ignoring case
func (s *MaterialService) SortByName(ctx context.Context) error {
	return s.sort(ctx, "name", func(a, b *entity.Material) int {
		return match.CompareFold(a.Name, b.Name)
	})
}

// SortByQuantity stably sorts the store by ascending quantity
func (s *MaterialService) SortByQuantity(ctx context.Context) error {
	return s.sort(ctx, "quantity", func(a, b *entity.Material) int {
		return a.Quantity - b.Quantity
	})
}

func (s *MaterialService) sort(ctx context.Context, key string, cmp func(a, b *entity.Material) int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	slices.SortStableFunc(all, cmp)

	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("failed to reorder materials: %w", err)
	}

	s.logger.Debug("Materials sorted", map[string]interface{}{
		"operation_id": middleware.GetOperationID(ctx),
		"key":          key,
		"count":        len(ids),
	})
	return nil
}

// AdjustQuantity adds delta to the quantity of an active material. It fails
// with ErrMaterialLocked for expired materials, ErrInsufficientStock when the
// result would be negative and ErrInvalidAmount when it would overflow.
func (s *MaterialService) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Material, error) {
	return s.adjust(ctx, id, delta, true)
}

func (s *MaterialService) adjust(ctx context.Context, id string, delta int, requireActive bool) (*entity.Material, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requireActive && !m.Active() {
		return nil, fmt.Errorf("%w: %s", entity.ErrMaterialLocked, id)
	}
	if delta > 0 && m.Quantity > math.MaxInt-delta {
		return nil, fmt.Errorf("%w: %s cannot hold more than %d %s", entity.ErrInvalidAmount, id, math.MaxInt, m.Unit)
	}
	if m.Quantity+delta < 0 {
		return nil, fmt.Errorf("%w: %s has %d %s", entity.ErrInsufficientStock, id, m.Quantity, m.Unit)
	}

	m.Quantity += delta
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MaterialService) exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, entity.ErrMaterialNotFound):
		return false, nil
	default:
		return false, err
	}
}
