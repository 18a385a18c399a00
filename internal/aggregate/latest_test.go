package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/pagination"
)

func envelopeWithTotal(total int) pagination.PageEnvelope[backend.Listing] {
	return pagination.PageEnvelope[backend.Listing]{
		Items: []backend.Listing{},
		Meta:  pagination.NewMeta(total, 1, 20),
	}
}

func criteriaForPage(page int) FetchCriteria {
	return FetchCriteria{
		Collection: backend.CollectionCoupons,
		Scope:      GlobalScope(),
		Page:       page,
		PageSize:   20,
	}
}

func TestResultSlotCommitsNewestResolution(t *testing.T) {
	slot := NewResultSlot()

	_, commit := slot.Begin(context.Background(), criteriaForPage(1))
	assert.True(t, commit(envelopeWithTotal(10)))

	env, key, ok := slot.Latest()
	require.True(t, ok)
	assert.Equal(t, 10, env.TotalItems)
	assert.Equal(t, criteriaForPage(1).Key(), key)
}

func TestResultSlotDiscardsStaleCommit(t *testing.T) {
	slot := NewResultSlot()

	// A slow resolution for page 1 starts first...
	slowCtx, slowCommit := slot.Begin(context.Background(), criteriaForPage(1))

	// ...then the user turns to page 2 and that resolution finishes first.
	_, fastCommit := slot.Begin(context.Background(), criteriaForPage(2))
	assert.True(t, fastCommit(envelopeWithTotal(2)))

	// The superseded resolution was cancelled and its late commit refused.
	assert.Error(t, slowCtx.Err())
	assert.False(t, slowCommit(envelopeWithTotal(1)))

	env, key, ok := slot.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, env.TotalItems, "stale result must not clobber the fresher one")
	assert.Equal(t, criteriaForPage(2).Key(), key)
}

func TestResultSlotCommitAfterCommitOfSameGeneration(t *testing.T) {
	slot := NewResultSlot()

	_, commit := slot.Begin(context.Background(), criteriaForPage(1))
	assert.True(t, commit(envelopeWithTotal(1)))
	// Re-committing the same generation is allowed; it is still the newest.
	assert.True(t, commit(envelopeWithTotal(1)))
}

func TestResultSlotLatestBeforeAnyCommit(t *testing.T) {
	slot := NewResultSlot()

	_, _, ok := slot.Latest()
	assert.False(t, ok)

	_, _ = slot.Begin(context.Background(), criteriaForPage(1))
	_, key, ok := slot.Latest()
	assert.False(t, ok, "registered but uncommitted resolution has no envelope")
	assert.Equal(t, criteriaForPage(1).Key(), key)
}
