package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassifyEndDateOnly(t *testing.T) {
	t.Run("same calendar day is last day regardless of clock time", func(t *testing.T) {
		cls := Classify(Window{End: date("2024-08-31T00:00:00Z")}, date("2024-08-31T23:00:00Z"))
		assert.Equal(t, StatusLastDay, cls.Status)
		assert.Equal(t, 0, cls.DaysRemaining)

		cls = Classify(Window{End: date("2024-08-31T23:59:59Z")}, date("2024-08-31T00:00:01Z"))
		assert.Equal(t, StatusLastDay, cls.Status)
		assert.Equal(t, 0, cls.DaysRemaining)
	})

	t.Run("expired one second past midnight reports one day", func(t *testing.T) {
		cls := Classify(Window{End: date("2024-08-31T00:00:00Z")}, date("2024-09-01T00:00:01Z"))
		assert.Equal(t, StatusExpired, cls.Status)
		assert.Equal(t, 1, cls.DaysRemaining)
	})

	t.Run("days since expiry grows with truncated days", func(t *testing.T) {
		cls := Classify(Window{End: date("2024-08-31T00:00:00Z")}, date("2024-09-03T12:00:00Z"))
		assert.Equal(t, StatusExpired, cls.Status)
		assert.Equal(t, 3, cls.DaysRemaining)
	})

	t.Run("active rounds the remaining time up", func(t *testing.T) {
		now := date("2024-08-01T12:00:00Z")

		// 25 hours ahead is 2 days, never 1
		cls := Classify(Window{End: now.Add(25 * time.Hour)}, now)
		assert.Equal(t, StatusActive, cls.Status)
		assert.Equal(t, 2, cls.DaysRemaining)

		// 36 hours ahead is also 2 days
		cls = Classify(Window{End: now.Add(36 * time.Hour)}, now)
		assert.Equal(t, StatusActive, cls.Status)
		assert.Equal(t, 2, cls.DaysRemaining)

		// exactly 48 hours stays 2
		cls = Classify(Window{End: now.Add(48 * time.Hour)}, now)
		assert.Equal(t, StatusActive, cls.Status)
		assert.Equal(t, 2, cls.DaysRemaining)
	})
}

func TestClassifyStartEnd(t *testing.T) {
	start := date("2024-09-10T00:00:00Z")
	end := date("2024-09-20T00:00:00Z")
	window := Window{Start: &start, End: end}

	t.Run("before the start day is upcoming", func(t *testing.T) {
		cls := Classify(window, date("2024-09-05T08:00:00Z"))
		assert.Equal(t, StatusUpcoming, cls.Status)
		assert.Equal(t, 5, cls.DaysRemaining)
	})

	t.Run("between start and end is active", func(t *testing.T) {
		cls := Classify(window, date("2024-09-15T08:00:00Z"))
		assert.Equal(t, StatusActive, cls.Status)
		assert.Equal(t, 5, cls.DaysRemaining)
	})

	t.Run("start day itself is already active", func(t *testing.T) {
		cls := Classify(window, date("2024-09-10T00:00:01Z"))
		assert.Equal(t, StatusActive, cls.Status)
	})

	t.Run("end day wins over active", func(t *testing.T) {
		cls := Classify(window, date("2024-09-20T23:59:00Z"))
		assert.Equal(t, StatusLastDay, cls.Status)
		assert.Equal(t, 0, cls.DaysRemaining)
	})

	t.Run("past the end day is expired", func(t *testing.T) {
		cls := Classify(window, date("2024-09-22T00:00:00Z"))
		assert.Equal(t, StatusExpired, cls.Status)
		assert.Equal(t, 2, cls.DaysRemaining)
	})
}

// TestClassifyPartitionsInputs checks that the three ranges (before start,
// inside window, after end) cover every day with no overlap and no gap.
func TestClassifyPartitionsInputs(t *testing.T) {
	start := date("2024-03-01T00:00:00Z")
	end := date("2024-03-10T00:00:00Z")
	window := Window{Start: &start, End: end}

	for d := -5; d <= 15; d++ {
		now := start.AddDate(0, 0, d).Add(13 * time.Hour)
		cls := Classify(window, now)

		switch {
		case d < 0:
			assert.Equal(t, StatusUpcoming, cls.Status, "day offset %d", d)
		case d < 9:
			assert.Equal(t, StatusActive, cls.Status, "day offset %d", d)
		case d == 9:
			assert.Equal(t, StatusLastDay, cls.Status, "day offset %d", d)
		default:
			assert.Equal(t, StatusExpired, cls.Status, "day offset %d", d)
		}
		assert.GreaterOrEqual(t, cls.DaysRemaining, 0, "day offset %d", d)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	now := date("2024-06-01T09:30:00Z")
	window := Window{End: date("2024-06-05T00:00:00Z")}

	first := Classify(window, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(window, now))
	}
}

func TestParseDate(t *testing.T) {
	t.Run("accepts date-only wire form", func(t *testing.T) {
		parsed, err := ParseDate("2024-08-31")
		require.NoError(t, err)
		assert.Equal(t, date("2024-08-31T00:00:00Z"), parsed)
	})

	t.Run("accepts RFC3339", func(t *testing.T) {
		parsed, err := ParseDate("2024-08-31T14:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, date("2024-08-31T14:30:00Z"), parsed)
	})

	t.Run("accepts timestamps without zone", func(t *testing.T) {
		parsed, err := ParseDate("2024-08-31T14:30:00")
		require.NoError(t, err)
		assert.Equal(t, 14, parsed.Hour())
	})

	t.Run("rejects garbage and empty strings", func(t *testing.T) {
		_, err := ParseDate("not-a-date")
		assert.True(t, errors.Is(err, ErrInvalidDate))

		_, err = ParseDate("")
		assert.True(t, errors.Is(err, ErrInvalidDate))
	})
}
