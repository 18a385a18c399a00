// Package stores resolves a retailer's owner id into the set of store ids
// that scope multi-source listing requests.
package stores

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/topprix/listing-service/internal/backend"
)

// StoreLister is the backend call the directory depends on.
// *backend.Client satisfies it.
type StoreLister interface {
	FetchStores(ctx context.Context, ownerID string) ([]backend.Store, error)
}

// Config holds directory cache settings.
type Config struct {
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns the default directory settings. Owner-to-stores
// mappings change rarely, so a short TTL is mostly about picking up newly
// opened stores.
func DefaultConfig() Config {
	return Config{
		CacheSize: 512,
		CacheTTL:  5 * time.Minute,
	}
}

// Directory resolves owners to store ids, with an expiring LRU in front of
// the backend. Listing requests would otherwise pay the directory call on
// every page turn.
type Directory struct {
	lister StoreLister
	cache  *expirable.LRU[string, []string]
	logger zerolog.Logger
}

// NewDirectory creates a store directory.
func NewDirectory(lister StoreLister, cfg Config, logger *zerolog.Logger) *Directory {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Directory{
		lister: lister,
		cache:  expirable.NewLRU[string, []string](cfg.CacheSize, nil, cfg.CacheTTL),
		logger: logger.With().Str("component", "store_directory").Logger(),
	}
}

// StoresForOwner returns the ordered store ids of an owner. Order is the
// backend's enumeration order; multi-source merges depend on it being
// stable between calls.
func (d *Directory) StoresForOwner(ctx context.Context, ownerID string) ([]string, error) {
	if ids, ok := d.cache.Get(ownerID); ok {
		return ids, nil
	}

	stores, err := d.lister.FetchStores(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	d.cache.Add(ownerID, ids)

	d.logger.Debug().
		Str("owner_id", ownerID).
		Int("stores", len(ids)).
		Msg("Resolved owner stores")
	return ids, nil
}

// Invalidate drops an owner's cached store set.
func (d *Directory) Invalidate(ownerID string) {
	d.cache.Remove(ownerID)
}
