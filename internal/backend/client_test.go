package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := zerolog.Nop()
	cfg := DefaultConfig(baseURL)
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	return NewClient(cfg, &logger)
}

func TestFetchListingsDecodesVariantCollectionKeys(t *testing.T) {
	cases := []struct {
		collection Collection
		body       string
	}{
		{CollectionCoupons, `{"coupons":[{"id":"c1","title":"Coupon","endDate":"2024-08-31"}],"pagination":{"total":1,"page":1}}`},
		{CollectionFlyers, `{"flyers":[{"id":"f1","title":"Flyer","startDate":"2024-08-01","endDate":"2024-08-31"}],"pagination":{"totalCount":"1","currentPage":1}}`},
		{CollectionAntiWaste, `{"antiWasteItems":[{"id":"a1","title":"Bread","endDate":"2024-08-31"}],"pagination":{"count":1}}`},
	}

	for _, tc := range cases {
		t.Run(string(tc.collection), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/"+string(tc.collection), r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := testClient(t, srv.URL)
			page, err := client.FetchListings(context.Background(), ListingQuery{
				Collection: tc.collection,
				Page:       1,
				Limit:      20,
			})
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, 1, firstTotal(page))
		})
	}
}

func firstTotal(page ListingPage) int {
	for _, c := range []struct{ v int; ok bool }{
		{page.Pagination.Total.Value, page.Pagination.Total.Valid},
		{page.Pagination.TotalCount.Value, page.Pagination.TotalCount.Valid},
		{page.Pagination.Count.Value, page.Pagination.Count.Valid},
	} {
		if c.ok {
			return c.v
		}
	}
	return -1
}

func TestFetchListingsFallsBackToFirstArrayField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":"x","endDate":"2024-08-31"}],"pagination":{"total":1}}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	page, err := client.FetchListings(context.Background(), ListingQuery{
		Collection: CollectionCoupons,
		Page:       1,
		Limit:      20,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "x", page.Items[0].ID)
}

func TestFetchListingsForwardsQueryParameters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"coupons":[],"pagination":{"total":0}}`))
	}))
	defer srv.Close()

	active := true
	client := testClient(t, srv.URL)
	_, err := client.FetchListings(context.Background(), ListingQuery{
		Collection: CollectionCoupons,
		StoreID:    "store-7",
		CategoryID: "cat-3",
		Active:     &active,
		Page:       2,
		Limit:      25,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=25")
	assert.Contains(t, gotQuery, "active=true")
	assert.Contains(t, gotQuery, "categoryId=cat-3")
	assert.Contains(t, gotQuery, "storeId=store-7")
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"coupons":[],"pagination":{"total":0}}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.FetchListings(context.Background(), ListingQuery{Collection: CollectionCoupons, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.FetchListings(context.Background(), ListingQuery{Collection: CollectionCoupons, Page: 1, Limit: 10})

	var retryErr *FetchRetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, http.StatusNotFound, retryErr.LastStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	_, err := client.FetchListings(context.Background(), ListingQuery{Collection: CollectionCoupons, Page: 1, Limit: 10})

	var retryErr *FetchRetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, int32(4), calls.Load()) // initial attempt + 3 retries
}

func TestFetchStores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores", r.URL.Path)
		assert.Equal(t, "owner-1", r.URL.Query().Get("ownerId"))
		_, _ = w.Write([]byte(`{"stores":[{"id":"s1","ownerId":"owner-1","name":"Centre-ville"},{"id":"s2","ownerId":"owner-1","name":"Nord"}],"pagination":{"total":2}}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	stores, err := client.FetchStores(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "s1", stores[0].ID)
	assert.Equal(t, "s2", stores[1].ID)
}

func TestCollectionFromSlug(t *testing.T) {
	for _, slug := range []string{"anti-waste-items", "anti-waste", "antiwaste"} {
		collection, ok := CollectionFromSlug(slug)
		assert.True(t, ok)
		assert.Equal(t, CollectionAntiWaste, collection)
	}

	_, ok := CollectionFromSlug("groceries")
	assert.False(t, ok)
}
