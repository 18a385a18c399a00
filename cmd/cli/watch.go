package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/topprix/listing-service/internal/aggregate"
	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/search"
)

var (
	watchInterval time.Duration
	watchPage     int
	watchLimit    int
	watchActive   string
	watchStores   []string
	watchOwner    string
	watchCategory string
	watchSearch   string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <collection>",
	Short: "Re-resolve a collection page on an interval",
	Long: `Poll one page of a listing collection and print a summary after each
refresh. Refreshes go through a result slot: if a tick fires while the
previous resolution is still in flight, the older one is cancelled and
its result discarded, so the printed page is never older than the last
committed one.`,
	Example: `  listing-service watch coupons --interval 30s
  listing-service watch flyers --owner owner-123 --interval 1m`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Refresh interval")
	watchCmd.Flags().IntVar(&watchPage, "page", 1, "Page number (1-based)")
	watchCmd.Flags().IntVar(&watchLimit, "limit", 20, "Items per page")
	watchCmd.Flags().StringVar(&watchActive, "active", "all", "Activity filter: all, active, or inactive")
	watchCmd.Flags().StringArrayVar(&watchStores, "store", nil, "Store ID to include (repeatable)")
	watchCmd.Flags().StringVar(&watchOwner, "owner", "", "Owner ID, expands to the owner's stores")
	watchCmd.Flags().StringVar(&watchCategory, "category", "", "Category ID filter")
	watchCmd.Flags().StringVar(&watchSearch, "search", "", "Search query")
}

func runWatch(cmd *cobra.Command, args []string) error {
	collection, ok := backend.CollectionFromSlug(args[0])
	if !ok {
		return fmt.Errorf("unknown collection %q (expected one of: %s)", args[0], collectionSlugs())
	}

	agg, client, err := newAggregator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scope := aggregate.GlobalScope()
	switch {
	case watchOwner != "":
		dir := newDirectory(client)
		ids, err := dir.StoresForOwner(ctx, watchOwner)
		if err != nil {
			return fmt.Errorf("failed to resolve stores for owner %s: %w", watchOwner, err)
		}
		scope = aggregate.StoreScope(ids...)
	case len(watchStores) > 0:
		scope = aggregate.StoreScope(watchStores...)
	}

	criteria := aggregate.FetchCriteria{
		Collection: collection,
		Scope:      scope,
		Active:     aggregate.ActiveFilter(watchActive),
		CategoryID: watchCategory,
		Search:     search.Fold(watchSearch),
		Page:       watchPage,
		PageSize:   watchLimit,
	}

	slot := aggregate.NewResultSlot()
	refresh := func() {
		resolveCtx, commit := slot.Begin(ctx, criteria)
		go func() {
			env, err := agg.ResolvePage(resolveCtx, criteria)
			if err != nil {
				if resolveCtx.Err() == nil {
					logger.Warn().Err(err).Msg("Refresh failed, keeping last page")
				}
				return
			}
			if commit(env) {
				fmt.Printf("[%s] page %d/%d, %d items on page, %d total\n",
					time.Now().Format(time.TimeOnly),
					env.CurrentPage, env.TotalPages, len(env.Items), env.TotalItems)
			}
		}()
	}

	fmt.Printf("Watching %s every %s (Ctrl-C to stop)\n", collection, watchInterval)
	refresh()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped")
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}
