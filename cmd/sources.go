package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/wardwatch/wardwatch/pkg/reconcile"
	"github.com/wardwatch/wardwatch/pkg/report"
	"github.com/wardwatch/wardwatch/pkg/sheet"
	"github.com/wardwatch/wardwatch/pkg/whttp"
)

// sourceNames is the fixed set of logical sources, in serving order.
var sourceNames = []string{"beforeopen", "aftercount", "incident"}

// buildSources constructs a Source per configured endpoint. Sources with
// no URL are skipped; at least one must be configured.
func buildSources(proxy string) (map[string]sheet.Source, error) {
	fetchTimeout := time.Duration(viper.GetInt("poll.fetch_timeout_seconds")) * time.Second
	client, err := whttp.NewClient(proxy, fetchTimeout)
	if err != nil {
		return nil, err
	}

	sources := map[string]sheet.Source{}
	for _, name := range sourceNames {
		url := viper.GetString("sources." + name + ".url")
		if url == "" {
			continue
		}
		format := viper.GetString("sources." + name + ".format")
		switch format {
		case "", "gviz":
			sources[name] = sheet.NewGvizSource(name, url, client)
		case "pubhtml":
			sources[name] = sheet.NewPubHTMLSource(name, url, client)
		default:
			return nil, fmt.Errorf("source %s: unknown format %q", name, format)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no source URLs configured; set sources.<name>.url in the config file")
	}
	return sources, nil
}

// configuredSynonyms merges config-supplied header markers into the
// built-in synonym lists.
func configuredSynonyms() report.Synonyms {
	syn := report.DefaultSynonyms()
	for field := range syn {
		extra := viper.GetStringSlice("columns." + string(field))
		syn[field] = append(syn[field], extra...)
	}
	return syn
}

func configuredSchedule() reconcile.Schedule {
	return reconcile.Schedule{
		OpenHour:         viper.GetInt("schedule.open_hour"),
		CloseHour:        viper.GetInt("schedule.close_hour"),
		VotingSegments:   viper.GetInt("schedule.voting_segments"),
		CountingSegments: viper.GetInt("schedule.counting_segments"),
	}
}
