package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reservekit/pkg/validator"
)

func TestFutureDate(t *testing.T) {
	t.Run("passes for future date", func(t *testing.T) {
		rule := validator.FutureDate("date", time.Now().Add(time.Hour))
		assert.True(t, rule.Check())
		assert.Equal(t, "date must be in the future", rule.Error.Message)
		assert.Equal(t, "validation.date_future", rule.Error.TranslationKey)
	})

	t.Run("fails for past date", func(t *testing.T) {
		rule := validator.FutureDate("date", time.Now().Add(-time.Minute))
		assert.False(t, rule.Check())
	})

	t.Run("uses explicit reference instant", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		assert.True(t, validator.FutureDateAt("date", now.Add(time.Second), now).Check())
		assert.False(t, validator.FutureDateAt("date", now, now).Check())
	})
}

func TestDateBefore(t *testing.T) {
	limit := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("passes before limit", func(t *testing.T) {
		assert.True(t, validator.DateBefore("date", limit.AddDate(0, 0, -1), limit).Check())
	})

	t.Run("fails at or after limit", func(t *testing.T) {
		rule := validator.DateBefore("date", limit, limit)
		assert.False(t, rule.Check())
		assert.Equal(t, "date must be before 2025-09-01", rule.Error.Message)
		assert.Equal(t, "2025-09-01", rule.Error.TranslationValues["before"])
	})
}

func TestDateNotAfter(t *testing.T) {
	limit := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	t.Run("passes at or before limit", func(t *testing.T) {
		assert.True(t, validator.DateNotAfter("date", limit, limit).Check())
		assert.True(t, validator.DateNotAfter("date", limit.Add(-time.Minute), limit).Check())
	})

	t.Run("fails after limit", func(t *testing.T) {
		rule := validator.DateNotAfter("date", limit.Add(time.Nanosecond), limit)
		assert.False(t, rule.Check())
		assert.Equal(t, "date_not_after", rule.Error.Type)
		assert.Equal(t, "date must not be after 2025-11-20", rule.Error.Message)
		assert.Equal(t, "2025-11-20", rule.Error.TranslationValues["limit"])
	})
}

func TestParseDate(t *testing.T) {
	t.Run("accepts supported layouts", func(t *testing.T) {
		for _, in := range []string{
			"2025-05-04",
			"2025-05-04 18:30",
			"2025-05-04T18:30",
			"2025-05-04 18:30:00",
			"2025-05-04T18:30:00Z",
			"2025-05-04T18:30:00-06:00",
		} {
			got, err := validator.ParseDate(in)
			require.NoError(t, err, in)
			assert.Equal(t, 2025, got.Year(), in)
			assert.Equal(t, time.May, got.Month(), in)
		}
	})

	t.Run("accepts time values", func(t *testing.T) {
		now := time.Now()
		got, err := validator.ParseDate(now)
		require.NoError(t, err)
		assert.True(t, now.Equal(got))
	})

	t.Run("rejects garbage and zero values", func(t *testing.T) {
		for _, in := range []any{"tomorrow", "2025-13-01", "04/05/2025", time.Time{}} {
			_, err := validator.ParseDate(in)
			assert.Error(t, err, in)
		}
	})
}
