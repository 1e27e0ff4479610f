package reconcile

import (
	"sort"

	"github.com/wardwatch/wardwatch/pkg/report"
)

// TileSummary projects reconciled records onto the fixed universe of wards
// expected to report. Tiles is always exactly as long as Universe and in
// the same order, no matter how much real data exists.
type TileSummary struct {
	Universe  []string `json:"universe"`
	Tiles     []Status `json:"tiles"`
	Reported  int      `json:"reported"`
	Completed int      `json:"completed"`
	Pending   int      `json:"pending"`

	// Unmatched lists reconciled ward keys that belong to no universe
	// entry. They are not represented in Tiles; callers should log them
	// as a data-quality signal.
	Unmatched []string `json:"unmatched,omitempty"`
}

// Tiles builds the tile row for the given universe. Wards with no
// reconciled record are Missing.
func Tiles(universe []string, latest map[string]report.Record) TileSummary {
	s := TileSummary{
		Universe: universe,
		Tiles:    make([]Status, 0, len(universe)),
	}

	known := make(map[string]bool, len(universe))
	for _, ward := range universe {
		known[ward] = true
		rec, ok := latest[ward]
		if !ok {
			s.Tiles = append(s.Tiles, StatusMissing)
			continue
		}
		st := Classify(rec)
		s.Tiles = append(s.Tiles, st)
		s.Reported++
		switch st {
		case StatusCompleted:
			s.Completed++
		case StatusPending:
			s.Pending++
		}
	}

	for ward := range latest {
		if !known[ward] {
			s.Unmatched = append(s.Unmatched, ward)
		}
	}
	// Map iteration order is random; keep output stable across runs.
	sort.Strings(s.Unmatched)

	return s
}
