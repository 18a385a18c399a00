// Package pagination normalizes the catalog backend's inconsistent
// pagination payloads into a single envelope shape, and derives envelopes
// for client-side merged result sets.
package pagination

// Meta is the item-free part of a page envelope.
type Meta struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// PageEnvelope is one normalized page of results, independent of backend
// field-naming variance. TotalPages is at least 1 even for an empty result,
// HasNextPage means CurrentPage < TotalPages and HasPreviousPage means
// CurrentPage > 1.
type PageEnvelope[T any] struct {
	Items []T `json:"items"`
	Meta
}

// NewMeta derives envelope metadata from a known item count, used when
// paging happens client-side after a multi-partition merge.
func NewMeta(totalItems, page, perPage int) Meta {
	totalPages := PageCount(totalItems, perPage)
	return Meta{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		ItemsPerPage:    perPage,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// EmptyEnvelope is the envelope for a result set with no partitions and no
// items. TotalPages stays 1 so pagination controls render a single page.
func EmptyEnvelope[T any](page, perPage int) PageEnvelope[T] {
	return PageEnvelope[T]{
		Items: []T{},
		Meta:  NewMeta(0, page, perPage),
	}
}

// PageCount is ceil(totalItems / perPage), floored at 1.
func PageCount(totalItems, perPage int) int {
	if totalItems <= 0 || perPage <= 0 {
		return 1
	}
	pages := (totalItems + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}
