// Package aggregate turns one FetchCriteria plus the catalog backend into
// a single normalized page of listings. A request scoped to one store (or
// to the whole catalog) passes the backend's paging straight through; a
// request spanning a retailer's stores is a scatter-gather over partitions
// that merges and repaginates client-side.
package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/pagination"
)

// ListingFetcher fetches one backend partition of a listing collection.
// *backend.Client satisfies it; tests substitute fakes.
type ListingFetcher interface {
	FetchListings(ctx context.Context, q backend.ListingQuery) (backend.ListingPage, error)
}

// Config holds aggregation tuning knobs.
type Config struct {
	// UnpaginatedLimit is the limit sentinel sent with per-partition
	// requests in multi-source mode, large enough to cover one store's
	// whole collection.
	UnpaginatedLimit int

	// MaxConcurrency bounds the scatter-gather fan-out. Partition counts
	// are small (a retailer's own stores) so this rarely bites.
	MaxConcurrency int
}

// DefaultConfig returns the default aggregation settings.
func DefaultConfig() Config {
	return Config{
		UnpaginatedLimit: 1000,
		MaxConcurrency:   8,
	}
}

// Aggregator resolves fetch criteria into normalized pages.
type Aggregator struct {
	fetcher ListingFetcher
	config  Config
	logger  zerolog.Logger
	metrics *MetricsRecorder
	tracer  trace.Tracer
}

// New creates an aggregator over the given partition fetcher.
func New(fetcher ListingFetcher, config Config, logger *zerolog.Logger) *Aggregator {
	if config.UnpaginatedLimit <= 0 {
		config.UnpaginatedLimit = DefaultConfig().UnpaginatedLimit
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	return &Aggregator{
		fetcher: fetcher,
		config:  config,
		logger:  logger.With().Str("component", "aggregator").Logger(),
		metrics: NewMetricsRecorder(),
		tracer:  otel.Tracer("aggregate"),
	}
}

// ResolvePage resolves one criteria value into one normalized page.
//
// Single-source mode (global scope or exactly one store) passes page and
// page size through to the backend and trusts its paging. Multi-source
// mode fetches every partition unpaginated in parallel, concatenates in
// store-enumeration order, and slices the requested page out of the merged
// list. A page beyond the merged total is not clamped: the caller receives
// an empty item list and is expected to reset to page 1 itself.
func (a *Aggregator) ResolvePage(ctx context.Context, criteria FetchCriteria) (pagination.PageEnvelope[backend.Listing], error) {
	ctx, span := a.tracer.Start(ctx, "aggregate.ResolvePage",
		trace.WithAttributes(
			attribute.String("listing.collection", string(criteria.Collection)),
			attribute.Int("listing.page", criteria.Page),
			attribute.Int("listing.page_size", criteria.PageSize),
		))
	defer span.End()

	start := time.Now()

	switch {
	case criteria.Scope.Global || len(criteria.Scope.StoreIDs) == 1:
		env, err := a.resolveSingle(ctx, criteria)
		a.metrics.RecordResolve("single_source", time.Since(start))
		return env, err
	case len(criteria.Scope.StoreIDs) == 0:
		// Store-scoped criteria with zero stores: nothing to fetch.
		a.metrics.RecordResolve("empty_scope", time.Since(start))
		return pagination.EmptyEnvelope[backend.Listing](criteria.Page, criteria.PageSize), nil
	default:
		env, err := a.resolveMulti(ctx, criteria)
		a.metrics.RecordResolve("multi_source", time.Since(start))
		return env, err
	}
}

// resolveSingle issues one server-paginated request; the backend is the
// source of truth for paging.
func (a *Aggregator) resolveSingle(ctx context.Context, criteria FetchCriteria) (pagination.PageEnvelope[backend.Listing], error) {
	storeID := ""
	if !criteria.Scope.Global {
		storeID = criteria.Scope.StoreIDs[0]
	}

	a.metrics.RecordPartitionFetch(string(criteria.Collection))
	page, err := a.fetcher.FetchListings(ctx, backend.ListingQuery{
		Collection: criteria.Collection,
		StoreID:    storeID,
		CategoryID: criteria.CategoryID,
		Search:     criteria.Search,
		Active:     criteria.Active.queryFlag(),
		Page:       criteria.Page,
		Limit:      criteria.PageSize,
	})
	if err != nil {
		a.metrics.RecordPartitionFailure(string(criteria.Collection))
		return pagination.PageEnvelope[backend.Listing]{}, err
	}

	items := page.Items
	if items == nil {
		items = []backend.Listing{}
	}
	return pagination.PageEnvelope[backend.Listing]{
		Items: items,
		Meta:  pagination.Normalize(page.Pagination, criteria.Page, criteria.PageSize),
	}, nil
}

// resolveMulti scatter-gathers all partitions and repaginates client-side.
// Every page turn re-fetches and re-merges: partition counts are small and
// nothing is cached across criteria.
func (a *Aggregator) resolveMulti(ctx context.Context, criteria FetchCriteria) (pagination.PageEnvelope[backend.Listing], error) {
	storeIDs := criteria.Scope.StoreIDs

	// Results land indexed by partition so concatenation order stays
	// store-enumeration order regardless of completion order. There is no
	// cross-partition sort: each store keeps its server-side order.
	partitions := make([][]backend.Listing, len(storeIDs))
	partitionErrs := make([]error, len(storeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.MaxConcurrency)

	for i, storeID := range storeIDs {
		g.Go(func() error {
			a.metrics.RecordPartitionFetch(string(criteria.Collection))
			page, err := a.fetcher.FetchListings(gctx, backend.ListingQuery{
				Collection: criteria.Collection,
				StoreID:    storeID,
				CategoryID: criteria.CategoryID,
				Search:     criteria.Search,
				Active:     criteria.Active.queryFlag(),
				Page:       1,
				Limit:      a.config.UnpaginatedLimit,
			})
			if err != nil {
				// A failed partition contributes zero items instead of
				// failing the page; siblings keep running.
				a.metrics.RecordPartitionFailure(string(criteria.Collection))
				a.logger.Warn().
					Err(err).
					Str("collection", string(criteria.Collection)).
					Str("store_id", storeID).
					Msg("Partition fetch failed, contributing empty partition")
				partitionErrs[i] = &PartitionFetchError{StoreID: storeID, Err: err}
				return nil
			}
			partitions[i] = page.Items
			return nil
		})
	}
	// Goroutines only return nil; Wait is for completion, not errors.
	_ = g.Wait()

	merged := make([]backend.Listing, 0)
	failed := 0
	var lastErr error
	for i := range storeIDs {
		if partitionErrs[i] != nil {
			failed++
			lastErr = partitionErrs[i]
			continue
		}
		merged = append(merged, partitions[i]...)
	}

	if failed == len(storeIDs) {
		return pagination.PageEnvelope[backend.Listing]{}, &AllPartitionsFailedError{
			Partitions: len(storeIDs),
			LastErr:    lastErr,
		}
	}

	a.metrics.RecordMerge(len(storeIDs), len(merged))

	return pagination.PageEnvelope[backend.Listing]{
		Items: slicePage(merged, criteria.Page, criteria.PageSize),
		Meta:  pagination.NewMeta(len(merged), criteria.Page, criteria.PageSize),
	}, nil
}

// slicePage cuts [(page-1)*size, page*size) out of the merged list.
func slicePage(items []backend.Listing, page, size int) []backend.Listing {
	if page < 1 || size < 1 {
		return []backend.Listing{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []backend.Listing{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
