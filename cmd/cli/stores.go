package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// storesCmd represents the stores command
var storesCmd = &cobra.Command{
	Use:   "stores <ownerId>",
	Short: "List the stores belonging to an owner",
	Long: `Fetch the stores registered to an owner from the catalog backend.
The returned order is the backend's and is the order multi-store pages
are merged in.`,
	Example: `  listing-service stores owner-123`,
	Args:    cobra.ExactArgs(1),
	RunE:    runStores,
}

func init() {
	rootCmd.AddCommand(storesCmd)
}

func runStores(cmd *cobra.Command, args []string) error {
	client, err := newBackendClient()
	if err != nil {
		return err
	}

	storeList, err := client.FetchStores(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch stores for owner %s: %w", args[0], err)
	}

	if len(storeList) == 0 {
		fmt.Printf("No stores found for owner %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tZIP")
	for _, s := range storeList {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.City, s.ZipCode)
	}
	w.Flush()

	fmt.Printf("\n%d stores\n", len(storeList))
	return nil
}
