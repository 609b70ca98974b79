package repository

import (
	"fmt"
	"math"
)

// PageBounds returns the half-open offset range [start, end) covered by the
// 1-indexed page within a collection of total elements. Both bounds are
// clamped to total.
func PageBounds(page, pageSize, total int) (start, end int, err error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return 0, 0, err
	}
	if page-1 > (math.MaxInt-1)/pageSize {
		return total, total, nil
	}
	start = (page - 1) * pageSize
	if start >= total {
		return total, total, nil
	}
	end = start + pageSize
	if end > total || end < start {
		end = total
	}
	return start, end, nil
}

// ValidatePage rejects pages and page sizes below 1
func ValidatePage(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("page %d must be at least 1: %w", page, ErrInvalidPage)
	}
	if pageSize < 1 {
		return fmt.Errorf("page size %d must be at least 1: %w", pageSize, ErrInvalidPage)
	}
	return nil
}

// pageOffset returns the SQL OFFSET for a validated page, saturating on overflow
func pageOffset(page, pageSize int) int64 {
	if int64(page-1) > math.MaxInt64/int64(pageSize) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(pageSize)
}
