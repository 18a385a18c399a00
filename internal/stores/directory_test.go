package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topprix/listing-service/internal/backend"
)

type mockLister struct {
	stores map[string][]backend.Store
	errs   map[string]error
	calls  int
}

func (m *mockLister) FetchStores(ctx context.Context, ownerID string) ([]backend.Store, error) {
	m.calls++
	if err, ok := m.errs[ownerID]; ok {
		return nil, err
	}
	return m.stores[ownerID], nil
}

func newTestDirectory(lister StoreLister, ttl time.Duration) *Directory {
	logger := zerolog.Nop()
	return NewDirectory(lister, Config{CacheSize: 8, CacheTTL: ttl}, &logger)
}

func TestStoresForOwnerPreservesBackendOrder(t *testing.T) {
	lister := &mockLister{stores: map[string][]backend.Store{
		"owner-1": {{ID: "s3"}, {ID: "s1"}, {ID: "s2"}},
	}}
	dir := newTestDirectory(lister, time.Minute)

	ids, err := dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1", "s2"}, ids)
}

func TestStoresForOwnerCachesResolution(t *testing.T) {
	lister := &mockLister{stores: map[string][]backend.Store{
		"owner-1": {{ID: "s1"}},
	}}
	dir := newTestDirectory(lister, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := dir.StoresForOwner(context.Background(), "owner-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lister.calls)
}

func TestStoresForOwnerErrorIsNotCached(t *testing.T) {
	lister := &mockLister{
		stores: map[string][]backend.Store{},
		errs:   map[string]error{"owner-1": errors.New("backend down")},
	}
	dir := newTestDirectory(lister, time.Minute)

	_, err := dir.StoresForOwner(context.Background(), "owner-1")
	require.Error(t, err)

	delete(lister.errs, "owner-1")
	lister.stores["owner-1"] = []backend.Store{{ID: "s1"}}

	ids, err := dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
	assert.Equal(t, 2, lister.calls)
}

func TestStoresForOwnerEmptyOwnerIsCachedToo(t *testing.T) {
	// An owner with no stores is a valid resolution (zero partitions),
	// not a miss; it must not hammer the backend.
	lister := &mockLister{stores: map[string][]backend.Store{}}
	dir := newTestDirectory(lister, time.Minute)

	ids, err := dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	lister := &mockLister{stores: map[string][]backend.Store{
		"owner-1": {{ID: "s1"}},
	}}
	dir := newTestDirectory(lister, time.Minute)

	_, err := dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)

	dir.Invalidate("owner-1")
	_, err = dir.StoresForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}
