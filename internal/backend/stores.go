package backend

import (
	"context"
	"net/url"
	"strconv"
)

// storeListLimit is deliberately generous: a retailer owns a handful of
// stores, never thousands, and the directory call is made unpaginated.
const storeListLimit = 500

// FetchStores resolves the stores owned by a retailer. Order is the
// backend's enumeration order and is preserved, since downstream merging
// concatenates partitions in this order.
func (c *Client) FetchStores(ctx context.Context, ownerID string) ([]Store, error) {
	query := url.Values{}
	query.Set("ownerId", ownerID)
	query.Set("limit", strconv.Itoa(storeListLimit))

	var body struct {
		Stores []Store `json:"stores"`
	}
	if err := c.getJSON(ctx, "stores", query, &body); err != nil {
		return nil, err
	}
	if body.Stores == nil {
		body.Stores = []Store{}
	}
	return body.Stores, nil
}
