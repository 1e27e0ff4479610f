package reconcile

import (
	"reflect"
	"testing"
	"time"

	"github.com/wardwatch/wardwatch/pkg/report"
)

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		flags report.Flags
		want  Status
	}{
		{report.Flags{Reject: true, Status: true}, StatusRejected}, // rejection overrides completion
		{report.Flags{Reject: true}, StatusRejected},
		{report.Flags{Status: true}, StatusCompleted},
		{report.Flags{}, StatusPending},
		{report.Flags{CloseCase: true}, StatusPending}, // close-case alone is not a status
	}
	for _, tc := range tests {
		if got := Classify(report.Record{Flags: tc.flags}); got != tc.want {
			t.Fatalf("Classify(%+v) = %s, want %s", tc.flags, got, tc.want)
		}
	}
}

// The worked scenario: two reports for A (the 11:00 one wins and is
// completed), a rejected B, and C never reports.
func TestTilesScenario(t *testing.T) {
	universe := []string{"A", "B", "C"}

	records := []report.Record{
		rec("A", at(10, 0, 0), 0),
		{Ward: "A", ParsedAt: timePtr(at(11, 0, 0)), SourceIndex: 1, Flags: report.Flags{Status: true}},
		{Ward: "B", ParsedAt: timePtr(at(9, 0, 0)), SourceIndex: 2, Flags: report.Flags{Reject: true}},
	}

	latest, _ := Latest(records)
	s := Tiles(universe, latest)

	want := []Status{StatusCompleted, StatusRejected, StatusMissing}
	if !reflect.DeepEqual(s.Tiles, want) {
		t.Fatalf("tiles = %v, want %v", s.Tiles, want)
	}
	if s.Reported != 2 || s.Completed != 1 || s.Pending != 0 {
		t.Fatalf("counts = reported %d completed %d pending %d", s.Reported, s.Completed, s.Pending)
	}
}

func TestTilesAlwaysUniverseLength(t *testing.T) {
	universe := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

	for _, latest := range []map[string]report.Record{
		nil,
		{},
		{"A": rec("A", at(10, 0, 0), 0)},
		{"X": rec("X", at(10, 0, 0), 0)}, // unknown ward only
	} {
		s := Tiles(universe, latest)
		if len(s.Tiles) != len(universe) {
			t.Fatalf("tiles length %d, want %d", len(s.Tiles), len(universe))
		}
		missing := 0
		for _, st := range s.Tiles {
			if st == StatusMissing {
				missing++
			}
		}
		if missing+s.Reported != len(universe) {
			t.Fatalf("missing %d + reported %d != universe %d", missing, s.Reported, len(universe))
		}
	}
}

func TestTilesUnmatchedWards(t *testing.T) {
	latest, _ := Latest([]report.Record{
		rec("A", at(10, 0, 0), 0),
		rec("Z", at(10, 30, 0), 1),
		rec("Y", at(11, 0, 0), 2),
	})

	s := Tiles([]string{"A", "B"}, latest)
	if !reflect.DeepEqual(s.Unmatched, []string{"Y", "Z"}) {
		t.Fatalf("unmatched = %v", s.Unmatched)
	}
	if len(s.Tiles) != 2 || s.Reported != 1 {
		t.Fatalf("unknown wards leaked into tiles: %+v", s)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
