package reconcile

import (
	"sort"

	"github.com/wardwatch/wardwatch/pkg/report"
)

// RankWards ranks every reporting ward by raw report volume, descending.
// Every submission counts: a ward that reported five times counts five
// even though those rows reconcile to one current state. Ties keep
// first-encountered order.
func RankWards(records []report.Record) []string {
	counts := make(map[string]int)
	order := []string{}

	for _, r := range records {
		if r.Ward == "" {
			continue
		}
		if _, seen := counts[r.Ward]; !seen {
			order = append(order, r.Ward)
		}
		counts[r.Ward]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// TopWards returns the top k keys of RankWards.
func TopWards(records []report.Record, k int) []string {
	order := RankWards(records)
	if k < 0 {
		k = 0
	}
	if k > len(order) {
		k = len(order)
	}
	return order[:k]
}
