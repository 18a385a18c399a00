package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/topprix/listing-service/internal/lifecycle"
)

var (
	classifyStart string
	classifyAt    string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <end-date>",
	Short: "Classify a validity window against the clock",
	Long: `Compute the lifecycle status (upcoming, active, last_day, expired) and
remaining days for a validity window. Dates accept RFC 3339 timestamps or
plain YYYY-MM-DD calendar dates.`,
	Example: `  listing-service classify 2026-09-15
  listing-service classify 2026-09-15 --start 2026-09-01
  listing-service classify 2026-09-15T18:00:00Z --at 2026-09-15T09:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyStart, "start", "", "Window start date (optional)")
	classifyCmd.Flags().StringVar(&classifyAt, "at", "", "Reference time (defaults to now)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	end, err := lifecycle.ParseDate(args[0])
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", args[0], err)
	}

	window := lifecycle.Window{End: end}
	if classifyStart != "" {
		start, err := lifecycle.ParseDate(classifyStart)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", classifyStart, err)
		}
		window.Start = &start
	}

	now := time.Now()
	if classifyAt != "" {
		now, err = lifecycle.ParseDate(classifyAt)
		if err != nil {
			return fmt.Errorf("invalid reference time %q: %w", classifyAt, err)
		}
	}

	c := lifecycle.Classify(window, now)

	fmt.Printf("Status:         %s\n", c.Status)
	switch c.Status {
	case lifecycle.StatusLastDay:
		fmt.Println("Days remaining: 0 (ends today)")
	case lifecycle.StatusExpired:
		fmt.Printf("Days expired:   %d\n", c.DaysRemaining)
	default:
		fmt.Printf("Days remaining: %d\n", c.DaysRemaining)
	}
	return nil
}
