package report

import (
	"testing"

	"github.com/wardwatch/wardwatch/pkg/sheet"
)

func snap(headers []string, rows ...sheet.RawRow) sheet.Snapshot {
	return sheet.Snapshot{Source: "test", Headers: headers, Rows: rows}
}

var testHeaders = []string{"Timestamp", "Ward", "Status", "Reject", "Notes", "Photo"}

func TestNormalizeBasicRow(t *testing.T) {
	s := snap(testHeaders, sheet.RawRow{
		"Timestamp": "3/1/2024 8:05:09",
		"Ward":      " Ward 1 ",
		"Status":    "1",
		"Reject":    "0",
		"Notes":     "all good",
	})

	records := Normalize(s, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.Ward != "Ward 1" {
		t.Fatalf("ward = %q", r.Ward)
	}
	if r.ParsedAt == nil {
		t.Fatal("timestamp not parsed")
	}
	if !r.Flags.Status || r.Flags.Reject {
		t.Fatalf("flags = %+v", r.Flags)
	}
	if r.Fields["Notes"] != "all good" {
		t.Fatal("original fields not retained")
	}
	if r.SourceIndex != 0 {
		t.Fatalf("source index = %d", r.SourceIndex)
	}
}

func TestNormalizeFlagLiterals(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{"1", true},
		{"1.0", true},
		{" 1 ", true},
		{"0", false},
		{"true", false},
		{"yes", false},
		{"", false},
		{"2", false},
	}
	for _, tc := range tests {
		s := snap(testHeaders, sheet.RawRow{"Ward": "Ward 1", "Status": tc.cell})
		records := Normalize(s, nil)
		if len(records) != 1 {
			t.Fatalf("cell %q: expected 1 record", tc.cell)
		}
		if records[0].Flags.Status != tc.want {
			t.Fatalf("flag cell %q parsed as %v, want %v", tc.cell, records[0].Flags.Status, tc.want)
		}
	}
}

func TestNormalizeBlankRowGuard(t *testing.T) {
	s := snap(testHeaders,
		// Fully blank templated row
		sheet.RawRow{"Timestamp": "", "Ward": "", "Notes": ""},
		// Keyless, timestampless, only 2 other fields: still a blank
		sheet.RawRow{"Notes": "x", "Photo": "y"},
		// Keyless but timestamped: a real (if malformed) submission
		sheet.RawRow{"Timestamp": "3/1/2024 9:00:00"},
		// Keyless with 3 substantive fields: a real submission
		sheet.RawRow{"Status": "1", "Notes": "x", "Photo": "y"},
		// Keyed row: always real
		sheet.RawRow{"Ward": "Ward 2"},
	)

	records := Normalize(s, nil)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// SourceIndex counts positions in the original snapshot, not the
	// surviving set, so write-back still addresses the right remote row.
	if records[0].SourceIndex != 2 || records[1].SourceIndex != 3 || records[2].SourceIndex != 4 {
		t.Fatalf("source indexes = %d,%d,%d", records[0].SourceIndex, records[1].SourceIndex, records[2].SourceIndex)
	}
}

func TestNormalizeUnparsableTimestampKept(t *testing.T) {
	s := snap(testHeaders, sheet.RawRow{"Timestamp": "soon", "Ward": "Ward 1"})

	records := Normalize(s, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ParsedAt != nil {
		t.Fatal("expected nil ParsedAt")
	}
	if records[0].RawTimestamp != "soon" {
		t.Fatalf("raw timestamp = %q", records[0].RawTimestamp)
	}
}
