package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstReviewDate(t *testing.T) {
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

	t.Run("Six months after decision", func(t *testing.T) {
		decision := time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), FirstReviewDate(&decision, now))
	})

	t.Run("Six months from now without decision", func(t *testing.T) {
		assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), FirstReviewDate(nil, now))
	})

	t.Run("Zero decision date treated as missing", func(t *testing.T) {
		var zero time.Time
		assert.Equal(t, time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), FirstReviewDate(&zero, now))
	})

	t.Run("Crosses year boundary", func(t *testing.T) {
		decision := time.Date(2024, time.November, 5, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC), FirstReviewDate(&decision, now))
	})
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, time.February, 29, 22, 10, 5, 99, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
