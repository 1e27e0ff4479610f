package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wardwatch/wardwatch/internal/server"
	"github.com/wardwatch/wardwatch/internal/utils"
	"github.com/wardwatch/wardwatch/pkg/polling"
	"github.com/wardwatch/wardwatch/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll all configured sources and serve the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		proxy, _ := cmd.Flags().GetString("proxy")
		dayFlag, _ := cmd.Flags().GetString("day")
		noAudit, _ := cmd.Flags().GetBool("no-audit")

		day, err := parseDayFlag(dayFlag)
		if err != nil {
			return err
		}

		sources, err := buildSources(proxy)
		if err != nil {
			return err
		}

		var audit *storage.DB
		if !noAudit {
			dbPath, err := utils.GetAbsDBPath(viper.GetString("db.path"))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return err
			}
			// Only one serve process may write the audit store.
			lock, err := utils.NewDBLock(dbPath)
			if err != nil {
				return err
			}
			if err := lock.Lock(); err != nil {
				return err
			}
			defer lock.Unlock()

			audit, err = storage.Open(dbPath)
			if err != nil {
				utils.Log.Warnf("Audit store unavailable, continuing without it: %v", err)
			} else {
				defer audit.Close()
			}
		}

		interval := time.Duration(viper.GetInt("poll.interval_seconds")) * time.Second
		fetchTimeout := time.Duration(viper.GetInt("poll.fetch_timeout_seconds")) * time.Second

		cells := map[string]*polling.Cell{}
		for name, src := range sources {
			cfg := polling.Config{
				Source:       src,
				Synonyms:     configuredSynonyms(),
				Universe:     viper.GetStringSlice("universe"),
				Schedule:     configuredSchedule(),
				Day:          day,
				Interval:     interval,
				FetchTimeout: fetchTimeout,
				Audit:        audit,
				Log:          utils.Log,
			}
			cell := &polling.Cell{}
			cells[name] = cell
			go polling.Loop(context.Background(), cfg, cell)
			utils.Log.Infof("Polling %s every %s", name, interval)
		}

		srv := server.New(cells,
			viper.GetString("server.username"),
			viper.GetString("server.password"))
		return srv.Start(viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("day", "", "Operational day as YYYY-MM-DD (default: today, re-evaluated each cycle)")
	serveCmd.Flags().Bool("no-audit", false, "Disable the local audit store")
}

// parseDayFlag turns an optional YYYY-MM-DD flag into a target day. An
// empty flag keeps the zero value, meaning "today at each cycle".
func parseDayFlag(s string) (polling.TargetDay, error) {
	if s == "" {
		return polling.TargetDay{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return polling.TargetDay{}, fmt.Errorf("invalid --day %q: expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return polling.TargetDay{Year: y, Month: m, Day: d}, nil
}
