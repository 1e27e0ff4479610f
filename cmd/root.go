package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardwatch/wardwatch/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wardwatch",
	Short: "A live report-reconciliation dashboard for ward-level field reports.",
	Long: `wardwatch polls a published spreadsheet of human-edited report rows and
reconciles them into a latest-state view per reporting ward, a fixed-grid
status summary, and a progress timeline for the operational day.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wardwatch.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".wardwatch")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.wardwatch.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Source endpoints. Each needs a url; format is "gviz" or "pubhtml".
	for _, src := range []string{"beforeopen", "aftercount", "incident"} {
		viper.SetDefault("sources."+src+".url", "")
		viper.SetDefault("sources."+src+".format", "gviz")
	}

	// The fixed universe of reporting wards shown on the dashboard grid.
	viper.SetDefault("universe", []string{
		"Ward 1", "Ward 2", "Ward 3", "Ward 4", "Ward 5",
		"Ward 6", "Ward 7", "Ward 8", "Ward 9",
	})

	viper.SetDefault("schedule.open_hour", 8)
	viper.SetDefault("schedule.close_hour", 17)
	viper.SetDefault("schedule.voting_segments", 3)
	viper.SetDefault("schedule.counting_segments", 2)

	// Extra header markers merged into the built-in column synonyms, so
	// localized sheets resolve without code changes.
	for _, field := range []string{"ward", "timestamp", "status", "reject", "closecase"} {
		viper.SetDefault("columns."+field, []string{})
	}

	viper.SetDefault("poll.interval_seconds", 30)
	viper.SetDefault("poll.fetch_timeout_seconds", 20)

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	viper.SetDefault("db.path", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
