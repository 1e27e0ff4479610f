package reconcile

import (
	"fmt"
	"strings"

	"github.com/wardwatch/wardwatch/pkg/report"
)

// Schedule describes the named phases of the operational day as clock-hour
// ranges:
//
//	BeforeOpen  [00:00, open)
//	Open        the open instant exactly (e.g. 08:00:00)
//	Voting i    equal consecutive blocks of (open, close)
//	Close       the close instant exactly
//	Counting i  equal consecutive blocks of (close, 24:00)
//	Complete    status-flagged records at or after the close hour
type Schedule struct {
	OpenHour         int `json:"openHour"`
	CloseHour        int `json:"closeHour"`
	VotingSegments   int `json:"votingSegments"`
	CountingSegments int `json:"countingSegments"`
}

func DefaultSchedule() Schedule {
	return Schedule{OpenHour: 8, CloseHour: 17, VotingSegments: 3, CountingSegments: 2}
}

// PhaseCount is one timeline entry. Magnitude is a 0–5 bar length: within
// the Voting and Counting groups each non-zero segment is scaled against
// the group's busiest segment with a floor of 1 so it stays visible;
// point phases report 0.
type PhaseCount struct {
	Phase     string `json:"phase"`
	Count     int    `json:"count"`
	Magnitude int    `json:"magnitude"`
}

// PhaseNames returns the ordered phase sequence for the schedule.
func (s Schedule) PhaseNames() []string {
	names := []string{"BeforeOpen", "Open"}
	for i := 1; i <= s.VotingSegments; i++ {
		names = append(names, fmt.Sprintf("Voting %d", i))
	}
	names = append(names, "Close")
	for i := 1; i <= s.CountingSegments; i++ {
		names = append(names, fmt.Sprintf("Counting %d", i))
	}
	return append(names, "Complete")
}

// Bucket assigns every record with a parseable timestamp to exactly one
// phase by its local clock time. Every individual report counts; the
// input is the day-filtered, not deduplicated, record set. The per-phase
// counts always sum to the number of parseable records.
func Bucket(records []report.Record, s Schedule) []PhaseCount {
	names := s.PhaseNames()
	counts := make(map[string]int, len(names))

	for _, r := range records {
		if r.ParsedAt == nil {
			continue
		}
		counts[s.phaseOf(r)]++
	}

	out := make([]PhaseCount, 0, len(names))
	for _, name := range names {
		out = append(out, PhaseCount{Phase: name, Count: counts[name]})
	}

	applyMagnitudes(out, "Voting ")
	applyMagnitudes(out, "Counting ")
	return out
}

// Open and Close are point phases: they hold only the exact open and
// close instants (08:00:00, 17:00:00 by default). One second later
// already belongs to the first Voting or Counting segment.
func (s Schedule) phaseOf(r report.Record) string {
	hour := r.ParsedAt.Hour()
	sec := hour*3600 + r.ParsedAt.Minute()*60 + r.ParsedAt.Second()
	openSec := s.OpenHour * 3600
	closeSec := s.CloseHour * 3600

	switch {
	// Completion overrides the clock buckets so each record lands in one
	// phase only.
	case r.Flags.Status && hour >= s.CloseHour:
		return "Complete"
	case sec < openSec:
		return "BeforeOpen"
	case sec == openSec:
		return "Open"
	case sec < closeSec:
		return fmt.Sprintf("Voting %d", 1+segmentOf(sec, openSec+1, closeSec, s.VotingSegments))
	case sec == closeSec:
		return "Close"
	default:
		return fmt.Sprintf("Counting %d", 1+segmentOf(sec, closeSec+1, 24*3600, s.CountingSegments))
	}
}

// segmentOf splits [start, end) seconds into n consecutive blocks and
// returns the zero-based block holding second m. The spans are not always
// exactly divisible; integer arithmetic keeps the boundaries
// deterministic.
func segmentOf(m, start, end, n int) int {
	if n <= 1 || end <= start {
		return 0
	}
	idx := (m - start) * n / (end - start)
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// applyMagnitudes scales each segment of one phase group against the
// group's maximum: ceil(count/max*5), clamped to [1,5] for non-zero
// counts. An all-zero group keeps a denominator of 1 to avoid dividing by
// zero.
func applyMagnitudes(phases []PhaseCount, prefix string) {
	max := 0
	for _, p := range phases {
		if strings.HasPrefix(p.Phase, prefix) && p.Count > max {
			max = p.Count
		}
	}
	if max == 0 {
		max = 1
	}

	for i := range phases {
		p := &phases[i]
		if !strings.HasPrefix(p.Phase, prefix) || p.Count == 0 {
			continue
		}
		mag := (p.Count*5 + max - 1) / max
		if mag < 1 {
			mag = 1
		}
		if mag > 5 {
			mag = 5
		}
		p.Magnitude = mag
	}
}
