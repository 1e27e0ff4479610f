// Package reconcile collapses normalized report records into the
// aggregates the dashboard serves: one latest record per ward, a
// fixed-universe tile row, a per-phase timeline, and a volume ranking.
// Everything here is a pure function of its inputs; running it twice on
// the same records yields identical output.
package reconcile

import (
	"time"

	"github.com/wardwatch/wardwatch/pkg/report"
)

// FilterDay keeps records whose parsed instant falls on the given local
// calendar day. Records with no parseable timestamp cannot be dated and
// are dropped here, before any downstream aggregation.
func FilterDay(records []report.Record, year int, month time.Month, day int) []report.Record {
	out := make([]report.Record, 0, len(records))
	for _, r := range records {
		if r.ParsedAt == nil {
			continue
		}
		y, m, d := r.ParsedAt.Date()
		if y == year && m == month && d == day {
			out = append(out, r)
		}
	}
	return out
}

// TieBreak records one reconciliation decided by fetch order rather than
// by timestamp. The upstream sheet does not guarantee stable row order
// across polls, so callers surface these as data-quality signals.
type TieBreak struct {
	Ward        string
	WinnerIndex int
	LoserIndex  int
}

// Latest folds records into one representative per ward, last-writer-wins:
// a strictly later parsed instant beats an earlier or missing one; a
// parsed instant beats an unparsed one; two unparsed records fall back to
// the larger source index. Records with no ward key are skipped; they
// have nothing to reconcile under.
func Latest(records []report.Record) (map[string]report.Record, []TieBreak) {
	best := make(map[string]report.Record)
	var ties []TieBreak

	for _, r := range records {
		if r.Ward == "" {
			continue
		}
		cur, ok := best[r.Ward]
		if !ok {
			best[r.Ward] = r
			continue
		}
		winner, byOrder := pickNewer(cur, r)
		if byOrder {
			loser := cur
			if winner.SourceIndex == cur.SourceIndex {
				loser = r
			}
			ties = append(ties, TieBreak{Ward: r.Ward, WinnerIndex: winner.SourceIndex, LoserIndex: loser.SourceIndex})
		}
		best[r.Ward] = winner
	}

	return best, ties
}

// pickNewer returns the record that supersedes the other, and whether the
// decision came from fetch order instead of timestamps.
func pickNewer(a, b report.Record) (report.Record, bool) {
	switch {
	case a.ParsedAt != nil && b.ParsedAt != nil:
		if b.ParsedAt.After(*a.ParsedAt) {
			return b, false
		}
		if a.ParsedAt.After(*b.ParsedAt) {
			return a, false
		}
		// Identical instants: presume the later-appended row is newer.
		return laterBySourceIndex(a, b), true
	case b.ParsedAt != nil:
		return b, false
	case a.ParsedAt != nil:
		return a, false
	default:
		return laterBySourceIndex(a, b), true
	}
}

func laterBySourceIndex(a, b report.Record) report.Record {
	if b.SourceIndex > a.SourceIndex {
		return b
	}
	return a
}
