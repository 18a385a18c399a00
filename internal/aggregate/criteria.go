package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/topprix/listing-service/internal/backend"
)

// ActiveFilter narrows a listing request by validity.
type ActiveFilter string

const (
	ActiveAll  ActiveFilter = "all"
	ActiveOnly ActiveFilter = "active"
	Inactive   ActiveFilter = "inactive"
)

// queryFlag maps the filter to the backend's boolean query parameter;
// nil means the parameter is omitted.
func (f ActiveFilter) queryFlag() *bool {
	switch f {
	case ActiveOnly:
		v := true
		return &v
	case Inactive:
		v := false
		return &v
	}
	return nil
}

// OwnerScope restricts a listing request to a retailer's stores, or spans
// the whole catalog when Global.
type OwnerScope struct {
	Global   bool
	StoreIDs []string
}

// GlobalScope spans the whole catalog.
func GlobalScope() OwnerScope { return OwnerScope{Global: true} }

// StoreScope restricts to the given store ids, preserving order.
func StoreScope(storeIDs ...string) OwnerScope {
	return OwnerScope{StoreIDs: storeIDs}
}

// FetchCriteria is an immutable description of one page request. A fresh
// value is built per user interaction; nothing is cached across criteria.
type FetchCriteria struct {
	Collection backend.Collection
	Scope      OwnerScope
	Active     ActiveFilter
	CategoryID string
	Search     string
	Page       int
	PageSize   int
}

// Key is a stable identity string for the criteria, used to tag in-flight
// requests so late responses for superseded criteria can be discarded.
// Store order does not affect identity.
func (c FetchCriteria) Key() string {
	scope := "global"
	if !c.Scope.Global {
		ids := append([]string(nil), c.Scope.StoreIDs...)
		sort.Strings(ids)
		scope = "stores:" + strings.Join(ids, ",")
	}
	return strings.Join([]string{
		string(c.Collection),
		scope,
		string(c.Active),
		c.CategoryID,
		c.Search,
		strconv.Itoa(c.Page),
		strconv.Itoa(c.PageSize),
	}, "|")
}
