package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository provides a generic implementation of Repository backed by
// an ordered slice. All access goes through a single RWMutex and every value
// crossing the boundary is cloned, so callers never share state with the store.
type MemoryRepository[T Entity[T]] struct {
	mu       sync.RWMutex
	entities []T
	kind     string
}

// NewMemoryRepository creates an empty repository; kind names the entity in errors
func NewMemoryRepository[T Entity[T]](kind string) *MemoryRepository[T] {
	return &MemoryRepository[T]{kind: kind}
}

// FindAll retrieves all entities in insertion order
func (r *MemoryRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cloneRange(0, len(r.entities)), nil
}

// FindByID retrieves an entity by its ID
func (r *MemoryRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%s with ID %d: %w", r.kind, id, ErrNotFound)
	}
	return r.entities[idx].Clone(), nil
}

// FindByPage retrieves one page of entities in insertion order
func (r *MemoryRepository[T]) FindByPage(ctx context.Context, page, pageSize int) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start, end, err := PageBounds(page, pageSize, len(r.entities))
	if err != nil {
		return nil, err
	}
	return r.cloneRange(start, end), nil
}

// Create appends a new entity. An entity without an ID receives one more than
// the highest ID currently stored.
func (r *MemoryRepository[T]) Create(ctx context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	id := entity.EntityID()
	switch {
	case id < 0:
		return zero, fmt.Errorf("%s ID %d is negative: %w", r.kind, id, ErrInvalidEntity)
	case id == 0:
		next, err := r.nextID()
		if err != nil {
			return zero, err
		}
		entity = entity.WithID(next)
	case r.indexOf(id) >= 0:
		return zero, fmt.Errorf("%s with ID %d: %w", r.kind, id, ErrDuplicate)
	}

	stored := entity.Clone()
	r.entities = append(r.entities, stored)
	return stored.Clone(), nil
}

// Save replaces the stored entity with the same ID, keeping its position
func (r *MemoryRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(entity.EntityID())
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%s with ID %d: %w", r.kind, entity.EntityID(), ErrNotFound)
	}
	r.entities[idx] = entity.Clone()
	return entity.Clone(), nil
}

// DeleteByID removes the entity with the given ID, if present
func (r *MemoryRepository[T]) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	r.entities = append(r.entities[:idx], r.entities[idx+1:]...)
	return nil
}

// ExistsByID checks if an entity exists by its ID
func (r *MemoryRepository[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(id) >= 0, nil
}

// Clear removes every entity
func (r *MemoryRepository[T]) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities = nil
	return nil
}

// Filter returns clones of the entities matching keep, in insertion order
func (r *MemoryRepository[T]) Filter(keep func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []T{}
	for _, e := range r.entities {
		if keep(e) {
			result = append(result, e.Clone())
		}
	}
	return result
}

// Len returns the number of stored entities
func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// indexOf must be called with r.mu held
func (r *MemoryRepository[T]) indexOf(id int64) int {
	for i, e := range r.entities {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}

// nextID must be called with r.mu held
func (r *MemoryRepository[T]) nextID() (int64, error) {
	var highest int64
	for _, e := range r.entities {
		highest = max(highest, e.EntityID())
	}
	return successorID(r.kind, highest)
}

// cloneRange must be called with r.mu held
func (r *MemoryRepository[T]) cloneRange(start, end int) []T {
	result := make([]T, 0, end-start)
	for _, e := range r.entities[start:end] {
		result = append(result, e.Clone())
	}
	return result
}
