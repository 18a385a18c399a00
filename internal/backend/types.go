package backend

// Collection identifies one listing collection served by the catalog
// backend. The slug doubles as the request path segment.
type Collection string

const (
	CollectionCoupons   Collection = "coupons"
	CollectionFlyers    Collection = "flyers"
	CollectionAntiWaste Collection = "anti-waste-items"
)

// Collections returns the supported collections in a stable order.
func Collections() []Collection {
	return []Collection{CollectionCoupons, CollectionFlyers, CollectionAntiWaste}
}

// CollectionFromSlug resolves a URL slug to a collection. A couple of
// shorthand aliases used by the frontend are accepted.
func CollectionFromSlug(slug string) (Collection, bool) {
	switch slug {
	case "coupons":
		return CollectionCoupons, true
	case "flyers":
		return CollectionFlyers, true
	case "anti-waste-items", "anti-waste", "antiwaste":
		return CollectionAntiWaste, true
	}
	return "", false
}

// itemKeys lists the response field names under which each endpoint nests
// its item array. The backend is not consistent here either.
func (c Collection) itemKeys() []string {
	switch c {
	case CollectionCoupons:
		return []string{"coupons"}
	case CollectionFlyers:
		return []string{"flyers"}
	case CollectionAntiWaste:
		return []string{"antiWasteItems", "items"}
	}
	return nil
}

// Listing is one time-windowed entry of a collection: a flyer, a coupon or
// an anti-waste item. Dates stay in their wire form; parsing and lifecycle
// classification happen per render so one bad date only affects one row.
type Listing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	StoreID     string  `json:"storeId,omitempty"`
	StoreName   string  `json:"storeName,omitempty"`
	CategoryID  string  `json:"categoryId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate"`
}

// Store is one retail location of an owner, as returned by the store
// directory endpoint.
type Store struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// ListingQuery describes one listing request against a single backend
// partition. A nil Active leaves the filter out of the query string.
type ListingQuery struct {
	Collection Collection
	StoreID    string
	CategoryID string
	Search     string
	Active     *bool
	Page       int
	Limit      int
}
