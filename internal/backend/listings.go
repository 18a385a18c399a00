package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/topprix/listing-service/internal/pagination"
)

// ListingPage is one backend page of a collection: the raw item array plus
// the endpoint's pagination fragment, untranslated.
type ListingPage struct {
	Items      []Listing
	Pagination pagination.RawPayload
}

// FetchListings fetches one page of one collection from the backend.
// The item array key in the response varies per endpoint; the decoder
// resolves the collection's known keys and falls back to the first array
// field it finds.
func (c *Client) FetchListings(ctx context.Context, q ListingQuery) (ListingPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Active != nil {
		query.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.CategoryID != "" {
		query.Set("categoryId", q.CategoryID)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.StoreID != "" {
		query.Set("storeId", q.StoreID)
	}

	var body map[string]json.RawMessage
	if err := c.getJSON(ctx, string(q.Collection), query, &body); err != nil {
		return ListingPage{}, err
	}

	page := ListingPage{Items: []Listing{}}

	if rawMeta, ok := body["pagination"]; ok {
		// RawPayload decoding is lenient by construction; a malformed
		// fragment leaves fields absent instead of erroring.
		_ = json.Unmarshal(rawMeta, &page.Pagination)
	}

	rawItems, ok := c.findItemArray(q.Collection, body)
	if !ok {
		return ListingPage{}, fmt.Errorf("no item array in %s response", q.Collection)
	}
	if err := json.Unmarshal(rawItems, &page.Items); err != nil {
		return ListingPage{}, fmt.Errorf("decode %s items: %w", q.Collection, err)
	}

	return page, nil
}

// findItemArray locates the collection's item array in a decoded response
// body: known keys first, then any field holding a JSON array.
func (c *Client) findItemArray(collection Collection, body map[string]json.RawMessage) (json.RawMessage, bool) {
	for _, key := range collection.itemKeys() {
		if raw, ok := body[key]; ok {
			return raw, true
		}
	}
	for key, raw := range body {
		if key == "pagination" {
			continue
		}
		if len(raw) > 0 && raw[0] == '[' {
			return raw, true
		}
	}
	return nil, false
}
