package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name               string
		page, size, total  int
		wantStart, wantEnd int
	}{
		{"first page", 1, 2, 3, 0, 2},
		{"last partial page", 2, 2, 3, 2, 3},
		{"past the end", 3, 2, 3, 3, 3},
		{"empty collection", 1, 10, 0, 0, 0},
		{"page larger than collection", 1, 10, 3, 0, 3},
		{"exact fit", 2, 3, 6, 3, 6},
		{"overflowing offset", math.MaxInt, math.MaxInt, 5, 5, 5},
		{"overflowing end", 1, math.MaxInt, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := PageBounds(tt.page, tt.size, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)

			// Page length is min(size, max(0, total-(page-1)*size))
			assert.LessOrEqual(t, end-start, tt.size)
		})
	}
}

func TestPageBounds_Invalid(t *testing.T) {
	for _, tt := range []struct{ page, size int }{{0, 1}, {1, 0}, {-1, 5}, {2, -3}} {
		_, _, err := PageBounds(tt.page, tt.size, 10)
		assert.ErrorIs(t, err, ErrInvalidPage, "page=%d size=%d", tt.page, tt.size)
	}
}
