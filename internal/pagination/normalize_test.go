package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldResolutionOrder(t *testing.T) {
	t.Run("total wins over its aliases", func(t *testing.T) {
		raw := RawPayload{
			Total:      Int(50),
			TotalCount: Int(51),
			TotalItems: Int(52),
			Count:      Int(53),
		}
		meta := Normalize(raw, 1, 10)
		assert.Equal(t, 50, meta.TotalItems)
	})

	t.Run("aliases are consulted in order", func(t *testing.T) {
		meta := Normalize(RawPayload{TotalCount: Int(51), Count: Int(53)}, 1, 10)
		assert.Equal(t, 51, meta.TotalItems)

		meta = Normalize(RawPayload{Count: Int(53)}, 1, 10)
		assert.Equal(t, 53, meta.TotalItems)
	})

	t.Run("requested values backfill missing fields", func(t *testing.T) {
		meta := Normalize(RawPayload{Total: Int(45)}, 3, 20)
		assert.Equal(t, 3, meta.CurrentPage)
		assert.Equal(t, 20, meta.ItemsPerPage)
		assert.Equal(t, 3, meta.TotalPages) // ceil(45/20)
		assert.False(t, meta.HasNextPage)
		assert.True(t, meta.HasPreviousPage)
	})

	t.Run("backend flags win over derived ones", func(t *testing.T) {
		raw := RawPayload{
			Total:       Int(100),
			TotalPages:  Int(7),
			HasNextPage: Bool(false),
		}
		meta := Normalize(raw, 1, 10)
		assert.Equal(t, 7, meta.TotalPages)
		assert.False(t, meta.HasNextPage)
		assert.False(t, meta.HasPreviousPage)
	})
}

func TestNormalizeEmptyResultKeepsOnePage(t *testing.T) {
	meta := Normalize(RawPayload{}, 1, 20)
	assert.Equal(t, 0, meta.TotalItems)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPreviousPage)
}

func TestNormalizeRoundTrip(t *testing.T) {
	// A payload already in canonical field names passes through unchanged.
	raw := RawPayload{
		Total:           Int(42),
		Limit:           Int(10),
		CurrentPage:     Int(2),
		TotalPages:      Int(5),
		HasNextPage:     Bool(true),
		HasPreviousPage: Bool(true),
	}
	meta := Normalize(raw, 99, 99)
	assert.Equal(t, Meta{
		CurrentPage:     2,
		TotalPages:      5,
		TotalItems:      42,
		ItemsPerPage:    10,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, meta)
}

func TestNormalizeIdempotent(t *testing.T) {
	// The envelope's own field names are a subset of the recognized raw
	// names, so feeding an envelope back through Normalize is a no-op.
	meta := Normalize(RawPayload{Total: Int(42), Page: Int(2)}, 2, 10)

	encoded, err := json.Marshal(meta)
	require.NoError(t, err)

	var roundTripped RawPayload
	require.NoError(t, json.Unmarshal(encoded, &roundTripped))

	assert.Equal(t, meta, Normalize(roundTripped, 99, 99))
}

func TestRawPayloadDecodingIsLenient(t *testing.T) {
	t.Run("numeric strings coerce", func(t *testing.T) {
		var raw RawPayload
		require.NoError(t, json.Unmarshal([]byte(`{"total":"120","page":"3"}`), &raw))
		assert.Equal(t, Int(120), raw.Total)
		assert.Equal(t, Int(3), raw.Page)
	})

	t.Run("garbage decodes as absent, never propagates", func(t *testing.T) {
		var raw RawPayload
		require.NoError(t, json.Unmarshal([]byte(`{"total":"abc","limit":null,"hasNextPage":"yes"}`), &raw))
		assert.False(t, raw.Total.Valid)
		assert.False(t, raw.Limit.Valid)
		assert.False(t, raw.HasNextPage.Valid)

		meta := Normalize(raw, 2, 25)
		assert.Equal(t, 0, meta.TotalItems)
		assert.Equal(t, 25, meta.ItemsPerPage)
	})

	t.Run("non-finite numerics decode as absent", func(t *testing.T) {
		var raw RawPayload
		require.NoError(t, json.Unmarshal([]byte(`{"total":"NaN","limit":"Infinity","page":"-Inf"}`), &raw))
		assert.False(t, raw.Total.Valid)
		assert.False(t, raw.Limit.Valid)
		assert.False(t, raw.Page.Valid)

		meta := Normalize(raw, 1, 20)
		assert.Equal(t, 0, meta.TotalItems)
		assert.Equal(t, 20, meta.ItemsPerPage)
		assert.Equal(t, 1, meta.CurrentPage)
	})

	t.Run("counters beyond int range decode as absent", func(t *testing.T) {
		var raw RawPayload
		require.NoError(t, json.Unmarshal([]byte(`{"total":"1e300"}`), &raw))
		assert.False(t, raw.Total.Valid)
	})

	t.Run("quoted booleans coerce", func(t *testing.T) {
		var raw RawPayload
		require.NoError(t, json.Unmarshal([]byte(`{"hasNextPage":"true","hasPreviousPage":false}`), &raw))
		assert.Equal(t, Bool(true), raw.HasNextPage)
		assert.Equal(t, Bool(false), raw.HasPreviousPage)
	})
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 20))
	assert.Equal(t, 1, PageCount(20, 20))
	assert.Equal(t, 2, PageCount(21, 20))
	assert.Equal(t, 2, PageCount(22, 20))
	assert.Equal(t, 1, PageCount(5, 0))
}

func TestEmptyEnvelope(t *testing.T) {
	env := EmptyEnvelope[string](1, 20)
	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
	assert.Equal(t, NewMeta(0, 1, 20), env.Meta)
}
