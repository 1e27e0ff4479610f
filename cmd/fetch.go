package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardwatch/wardwatch/internal/utils"
	"github.com/wardwatch/wardwatch/pkg/polling"
)

// fetchCmd implements: wardwatch fetch [source]
// One-shot: fetch the named source, run the full pipeline once, print the
// aggregate as JSON. Useful for testing endpoint configuration and for
// scripting.
var fetchCmd = &cobra.Command{
	Use:   "fetch [source]",
	Short: "Fetch one source, run the pipeline once, and print the aggregate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proxy, _ := cmd.Flags().GetString("proxy")
		dayFlag, _ := cmd.Flags().GetString("day")

		name := "aftercount"
		if len(args) == 1 {
			name = args[0]
		}

		day, err := parseDayFlag(dayFlag)
		if err != nil {
			return err
		}

		sources, err := buildSources(proxy)
		if err != nil {
			return err
		}
		src, ok := sources[name]
		if !ok {
			return fmt.Errorf("source %q is not configured", name)
		}

		snap, err := src.Fetch(cmd.Context())
		if err != nil {
			return err
		}

		agg, events := polling.BuildAggregate(snap, polling.Config{
			Source:   src,
			Synonyms: configuredSynonyms(),
			Universe: viper.GetStringSlice("universe"),
			Schedule: configuredSchedule(),
			Day:      day,
		})
		for _, e := range events {
			utils.Log.Warnf("data quality: %s ward=%q %s", e.Kind, e.Ward, e.Detail)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("day", "", "Operational day as YYYY-MM-DD (default: today)")
}
