// Package lifecycle classifies time-windowed listings (flyers, coupons,
// anti-waste entries) into a lifecycle status relative to an injected "now".
package lifecycle

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Status is the lifecycle state of a time-windowed listing.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusLastDay  Status = "last_day"
	StatusExpired  Status = "expired"
)

// ErrInvalidDate is returned when a listing's date field cannot be parsed.
// Callers are expected to fall back to an "unknown" display state instead
// of dropping the whole listing.
var ErrInvalidDate = errors.New("invalid date")

// Window is the validity window of a listing. A nil Start means the listing
// is treated as already started (coupons and ready anti-waste entries carry
// only an end date). Start <= End is assumed, not enforced.
type Window struct {
	Start *time.Time
	End   time.Time
}

// Classification is the derived lifecycle state of a window. It is never
// stored; callers recompute it on every render from the current time.
// DaysRemaining is a magnitude: days until start for upcoming, days until
// end for active, days since end for expired, always zero on the last day.
type Classification struct {
	Status        Status
	DaysRemaining int
}

const day = 24 * time.Hour

// Classify maps a validity window to a lifecycle status relative to now.
//
// Calendar-day identity wins over clock time: the single day that is both
// the end day and today is always StatusLastDay, never folded into active
// or expired. Day counts toward a future boundary are ceilings of the raw
// difference (a window ending 25 hours from now reports 2 days), while the
// count since an expired end is a ceiling over truncated days (expired one
// second past midnight reports 1 day).
func Classify(w Window, now time.Time) Classification {
	today := dayOf(now)
	endDay := dayOf(w.End)

	if w.Start != nil {
		startDay := dayOf(*w.Start)
		if today.Before(startDay) {
			return Classification{
				Status:        StatusUpcoming,
				DaysRemaining: ceilDays(w.Start.Sub(now)),
			}
		}
	}

	switch {
	case today.After(endDay):
		return Classification{
			Status:        StatusExpired,
			DaysRemaining: ceilDays(today.Sub(endDay)),
		}
	case today.Equal(endDay):
		return Classification{Status: StatusLastDay}
	default:
		return Classification{
			Status:        StatusActive,
			DaysRemaining: ceilDays(w.End.Sub(now)),
		}
	}
}

// dayOf truncates a timestamp to its own calendar day, normalized to UTC
// midnight so that day identity and day arithmetic are zone-independent.
// The calendar day is taken in the timestamp's location: a consumer-facing
// local deals site compares store-local "today", not a server-canonical one.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ceilDays converts a duration to whole days, rounding up, floored at zero.
func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// wire date layouts accepted from the catalog backend, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a wire date string from the catalog backend. Both
// date-only and timestamp forms occur across endpoints. Failures wrap
// ErrInvalidDate.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
