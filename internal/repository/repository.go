package repository

import "context"

// Repository defines the basic storage operations for any entity type.
// This follows a similar pattern to Spring Data's Repository interface.
type Repository[T any, ID comparable] interface {
	// FindAll retrieves all entities in insertion order
	FindAll(ctx context.Context) ([]T, error)

	// FindByID retrieves an entity by its ID
	// Returns ErrNotFound if the entity doesn't exist
	FindByID(ctx context.Context, id ID) (T, error)

	// FindByPage retrieves the 1-indexed page of the given size
	// Returns ErrInvalidPage if page or pageSize is below 1
	FindByPage(ctx context.Context, page, pageSize int) ([]T, error)

	// Create stores a new entity, assigning an ID when it has none
	// Returns ErrDuplicate if the ID is already taken
	Create(ctx context.Context, entity T) (T, error)

	// Save replaces the stored entity that has the same ID
	// Returns ErrNotFound if the entity doesn't exist
	Save(ctx context.Context, entity T) (T, error)

	// DeleteByID deletes an entity by its ID
	// Deleting a missing entity is not an error
	DeleteByID(ctx context.Context, id ID) error

	// ExistsByID checks if an entity exists by its ID
	ExistsByID(ctx context.Context, id ID) (bool, error)

	// Clear removes every entity
	Clear(ctx context.Context) error
}

// Entity is implemented by the domain records the generic stores hold.
type Entity[T any] interface {
	EntityID() int64
	WithID(id int64) T
	Clone() T
}
