package reconcile

import (
	"testing"
	"time"

	"github.com/wardwatch/wardwatch/pkg/report"
)

// rec builds a test record with a parsed timestamp.
func rec(ward string, at time.Time, idx int) report.Record {
	return report.Record{Ward: ward, RawTimestamp: at.Format("1/2/2006 15:04:05"), ParsedAt: &at, SourceIndex: idx}
}

// unparsed builds a test record whose timestamp could not be dated.
func unparsed(ward, raw string, idx int) report.Record {
	return report.Record{Ward: ward, RawTimestamp: raw, SourceIndex: idx}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 1, hour, min, sec, 0, time.Local)
}

func TestLatestLaterTimestampWins(t *testing.T) {
	latest, ties := Latest([]report.Record{
		rec("A", at(11, 0, 0), 1),
		rec("A", at(10, 0, 0), 0),
	})
	if len(ties) != 0 {
		t.Fatalf("unexpected tie-breaks: %v", ties)
	}
	if latest["A"].SourceIndex != 1 {
		t.Fatalf("expected 11:00 record to win, got index %d", latest["A"].SourceIndex)
	}
}

func TestLatestParsedBeatsUnparsed(t *testing.T) {
	latest, _ := Latest([]report.Record{
		rec("A", at(10, 0, 0), 0),
		unparsed("A", "later today", 5),
	})
	if latest["A"].SourceIndex != 0 {
		t.Fatal("parsed record should beat unparsed regardless of order")
	}

	latest, _ = Latest([]report.Record{
		unparsed("A", "later today", 5),
		rec("A", at(10, 0, 0), 0),
	})
	if latest["A"].SourceIndex != 0 {
		t.Fatal("parsed record should beat unparsed regardless of input order")
	}
}

func TestLatestUnparsedIndexTieBreak(t *testing.T) {
	latest, ties := Latest([]report.Record{
		unparsed("A", "morning", 2),
		unparsed("A", "later", 7),
	})
	if latest["A"].SourceIndex != 7 {
		t.Fatalf("expected larger source index to win, got %d", latest["A"].SourceIndex)
	}
	if len(ties) != 1 || ties[0].Ward != "A" || ties[0].WinnerIndex != 7 || ties[0].LoserIndex != 2 {
		t.Fatalf("tie-break record = %+v", ties)
	}
}

func TestLatestOnePerWard(t *testing.T) {
	latest, _ := Latest([]report.Record{
		rec("A", at(10, 0, 0), 0),
		rec("B", at(9, 0, 0), 1),
		rec("A", at(11, 0, 0), 2),
		rec("C", at(12, 0, 0), 3),
	})
	if len(latest) != 3 {
		t.Fatalf("expected 3 wards, got %d", len(latest))
	}
}

func TestLatestSkipsKeylessRecords(t *testing.T) {
	latest, _ := Latest([]report.Record{
		unparsed("", "x", 0),
		rec("A", at(10, 0, 0), 1),
	})
	if _, ok := latest[""]; ok {
		t.Fatal("keyless records must not reconcile")
	}
	if len(latest) != 1 {
		t.Fatalf("expected 1 ward, got %d", len(latest))
	}
}

func TestLatestEmptyInput(t *testing.T) {
	latest, ties := Latest(nil)
	if len(latest) != 0 || len(ties) != 0 {
		t.Fatal("empty input must yield empty output")
	}
}

func TestFilterDayExactness(t *testing.T) {
	edge := time.Date(2024, 3, 1, 23, 59, 59, 0, time.Local)
	records := []report.Record{
		{Ward: "A", ParsedAt: &edge, RawTimestamp: "3/1/2024 23:59:59"},
	}

	if got := FilterDay(records, 2024, time.March, 2); len(got) != 0 {
		t.Fatal("23:59:59 of day 1 must not belong to day 2")
	}
	if got := FilterDay(records, 2024, time.March, 1); len(got) != 1 {
		t.Fatal("23:59:59 of day 1 must belong to day 1")
	}
}

func TestFilterDayDropsUndated(t *testing.T) {
	got := FilterDay([]report.Record{
		unparsed("A", "", 0),
		unparsed("B", "???", 1),
		rec("C", at(10, 0, 0), 2),
	}, 2024, time.March, 1)

	if len(got) != 1 || got[0].Ward != "C" {
		t.Fatalf("expected only the dated record, got %v", got)
	}
}
