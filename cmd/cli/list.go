package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/topprix/listing-service/internal/aggregate"
	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/lifecycle"
	"github.com/topprix/listing-service/internal/search"
)

var (
	listPage     int
	listLimit    int
	listActive   string
	listStores   []string
	listOwner    string
	listCategory string
	listSearch   string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "List one classified page of a collection",
	Long: `Fetch one page of a listing collection (coupons, flyers, anti-waste),
merged across the requested stores, and print every listing with its
lifecycle status computed against the current time.`,
	Example: `  listing-service list coupons
  listing-service list flyers --page 2 --limit 50
  listing-service list anti-waste --owner owner-123 --active active
  listing-service list coupons --store st-1 --store st-2`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number (1-based)")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Items per page")
	listCmd.Flags().StringVar(&listActive, "active", "all", "Activity filter: all, active, or inactive")
	listCmd.Flags().StringArrayVar(&listStores, "store", nil, "Store ID to include (repeatable)")
	listCmd.Flags().StringVar(&listOwner, "owner", "", "Owner ID, expands to the owner's stores")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Category ID filter")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Search query")
}

func runList(cmd *cobra.Command, args []string) error {
	collection, ok := backend.CollectionFromSlug(args[0])
	if !ok {
		return fmt.Errorf("unknown collection %q (expected one of: %s)", args[0], collectionSlugs())
	}

	agg, client, err := newAggregator()
	if err != nil {
		return err
	}

	ctx := context.Background()

	scope := aggregate.GlobalScope()
	switch {
	case listOwner != "":
		dir := newDirectory(client)
		ids, err := dir.StoresForOwner(ctx, listOwner)
		if err != nil {
			return fmt.Errorf("failed to resolve stores for owner %s: %w", listOwner, err)
		}
		scope = aggregate.StoreScope(ids...)
	case len(listStores) > 0:
		scope = aggregate.StoreScope(listStores...)
	}

	env, err := agg.ResolvePage(ctx, aggregate.FetchCriteria{
		Collection: collection,
		Scope:      scope,
		Active:     aggregate.ActiveFilter(listActive),
		CategoryID: listCategory,
		Search:     search.Fold(listSearch),
		Page:       listPage,
		PageSize:   listLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to resolve page: %w", err)
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTORE\tSTATUS\tDAYS LEFT\tEND DATE")
	for _, item := range env.Items {
		status, days := describeListing(item, now)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, truncate(item.Title, 40), item.StoreID, status, days, item.EndDate)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d items total)\n", env.CurrentPage, env.TotalPages, env.TotalItems)
	return nil
}

// describeListing computes the display status and remaining-days column
// for one listing. Unparsable dates degrade to "unknown".
func describeListing(item backend.Listing, now time.Time) (string, string) {
	end, err := lifecycle.ParseDate(item.EndDate)
	if err != nil {
		return "unknown", "-"
	}

	window := lifecycle.Window{End: end}
	if item.StartDate != "" {
		if start, err := lifecycle.ParseDate(item.StartDate); err == nil {
			window.Start = &start
		}
	}

	c := lifecycle.Classify(window, now)
	switch c.Status {
	case lifecycle.StatusLastDay:
		return string(c.Status), "today"
	case lifecycle.StatusExpired:
		return string(c.Status), fmt.Sprintf("-%d", c.DaysRemaining)
	default:
		return string(c.Status), fmt.Sprintf("%d", c.DaysRemaining)
	}
}

func collectionSlugs() string {
	slugs := make([]string, 0, len(backend.Collections()))
	for _, c := range backend.Collections() {
		slugs = append(slugs, string(c))
	}
	return strings.Join(slugs, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
