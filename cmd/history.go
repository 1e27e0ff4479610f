package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardwatch/wardwatch/internal/utils"
	"github.com/wardwatch/wardwatch/pkg/storage"
)

// historyCmd implements: wardwatch history
// Prints recent poll cycles and data-quality events from the audit store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent poll cycles and data-quality events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
		if err != nil {
			return err
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		cycles, err := db.ListCycles(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Printf("Recent cycles (%d):\n", len(cycles))
		for _, c := range cycles {
			fmt.Printf("  %s  %-11s rows=%-4d day=%-4d reported=%-2d completed=%-2d pending=%-2d (%s)\n",
				c.FetchedAt.Format("2006-01-02 15:04:05"), c.Source,
				c.RawRows, c.DayRows, c.Reported, c.Completed, c.Pending, c.Duration.Round(time.Millisecond))
		}

		events, err := db.ListQualityEvents(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Printf("\nQuality events (%d):\n", len(events))
		for _, e := range events {
			line := fmt.Sprintf("  %s  %-11s %s", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Source, e.Kind)
			if e.Ward != "" {
				line += " ward=" + e.Ward
			}
			if e.Detail != "" {
				line += " (" + e.Detail + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum entries to print per section")
}
