package pagination

import (
	"bytes"
	"math"
	"strconv"
)

// OptionalInt is an integer field of an untrusted pagination payload.
// Backends serialize counts inconsistently: JSON number, numeric string,
// or null. Anything that does not coerce to a finite number decodes as
// absent rather than failing the whole payload.
type OptionalInt struct {
	Value int
	Valid bool
}

// Int wraps a value as a present OptionalInt.
func Int(v int) OptionalInt { return OptionalInt{Value: v, Valid: true} }

// UnmarshalJSON never returns an error: a field that cannot be coerced is
// simply absent, so one malformed count cannot sink the envelope.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	// ParseFloat accepts "NaN" and "Infinity"; converting those to int is
	// undefined, so they count as absent like any other garbage.
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	o.Value = int(f)
	o.Valid = true
	return nil
}

// OptionalBool is a boolean field of an untrusted pagination payload.
type OptionalBool struct {
	Value bool
	Valid bool
}

// Bool wraps a value as a present OptionalBool.
func Bool(v bool) OptionalBool { return OptionalBool{Value: v, Valid: true} }

// UnmarshalJSON accepts true/false with or without quoting; anything else
// decodes as absent.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	*o = OptionalBool{}
	switch string(bytes.Trim(data, `"`)) {
	case "true":
		*o = OptionalBool{Value: true, Valid: true}
	case "false":
		*o = OptionalBool{Value: false, Valid: true}
	}
	return nil
}

// RawPayload is the pagination fragment of a backend response. Field names
// vary across endpoints (total vs totalCount vs totalItems vs count, limit
// vs itemsPerPage, page vs currentPage); Normalize is the sole translator
// into the envelope shape.
type RawPayload struct {
	Total           OptionalInt  `json:"total"`
	TotalCount      OptionalInt  `json:"totalCount"`
	TotalItems      OptionalInt  `json:"totalItems"`
	Count           OptionalInt  `json:"count"`
	Limit           OptionalInt  `json:"limit"`
	ItemsPerPage    OptionalInt  `json:"itemsPerPage"`
	CurrentPage     OptionalInt  `json:"currentPage"`
	Page            OptionalInt  `json:"page"`
	TotalPages      OptionalInt  `json:"totalPages"`
	HasNextPage     OptionalBool `json:"hasNextPage"`
	HasPreviousPage OptionalBool `json:"hasPreviousPage"`
}

// Normalize resolves a raw pagination payload into envelope metadata.
// Resolution is first-present-wins per field, falling back to the values
// the caller requested and finally to derived defaults. Bad metadata never
// fails the page; that policy hides backend bugs but keeps listings up.
func Normalize(raw RawPayload, requestedPage, requestedLimit int) Meta {
	totalItems := firstInt(0, raw.Total, raw.TotalCount, raw.TotalItems, raw.Count)
	perPage := firstInt(requestedLimit, raw.Limit, raw.ItemsPerPage)
	page := firstInt(requestedPage, raw.CurrentPage, raw.Page)

	totalPages := PageCount(totalItems, perPage)
	if raw.TotalPages.Valid {
		totalPages = raw.TotalPages.Value
	}
	if totalPages < 1 {
		totalPages = 1
	}

	hasNext := page < totalPages
	if raw.HasNextPage.Valid {
		hasNext = raw.HasNextPage.Value
	}
	hasPrevious := page > 1
	if raw.HasPreviousPage.Valid {
		hasPrevious = raw.HasPreviousPage.Value
	}

	return Meta{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		ItemsPerPage:    perPage,
		HasNextPage:     hasNext,
		HasPreviousPage: hasPrevious,
	}
}

func firstInt(fallback int, candidates ...OptionalInt) int {
	for _, c := range candidates {
		if c.Valid {
			return c.Value
		}
	}
	return fallback
}
