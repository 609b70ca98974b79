package repository

import (
	"errors"
	"fmt"
	"math"
)

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when attempting to create an entity that already exists
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidPage is returned for a page or page size below 1
	ErrInvalidPage = errors.New("invalid page")
)

// successorID returns the ID assigned after highest. Once an entity holds
// math.MaxInt64 there is no next ID to give out.
func successorID(kind string, highest int64) (int64, error) {
	if highest == math.MaxInt64 {
		return 0, fmt.Errorf("%s id space exhausted: %w", kind, ErrInvalidEntity)
	}
	return highest + 1, nil
}
