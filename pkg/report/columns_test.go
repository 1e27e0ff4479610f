package report

import "testing"

func TestResolveColumns(t *testing.T) {
	headers := []string{"Timestamp", "Which ward are you reporting for?", "Report status (1 = done)", "Reject ballot?", "Notes"}

	cols := ResolveColumns(headers, nil)

	want := map[Field]string{
		FieldWard:      "Which ward are you reporting for?",
		FieldTimestamp: "Timestamp",
		FieldStatus:    "Report status (1 = done)",
		FieldReject:    "Reject ballot?",
	}
	for field, header := range want {
		if cols[field] != header {
			t.Fatalf("field %s resolved to %q, want %q", field, cols[field], header)
		}
	}
}

func TestResolveColumnsCaseInsensitive(t *testing.T) {
	cols := ResolveColumns([]string{"TIMESTAMP", "WARD"}, nil)
	if cols[FieldWard] != "WARD" || cols[FieldTimestamp] != "TIMESTAMP" {
		t.Fatalf("case-insensitive match failed: %v", cols)
	}
}

func TestResolveColumnsPositionalFallback(t *testing.T) {
	// No synonym matches anything: first column is the timestamp, second
	// the ward, per the form-export layout.
	cols := ResolveColumns([]string{"ประทับเวลา", "หน่วยเลือกตั้ง", "หมายเหตุ"}, nil)
	if cols[FieldTimestamp] != "ประทับเวลา" {
		t.Fatalf("timestamp fallback = %q", cols[FieldTimestamp])
	}
	if cols[FieldWard] != "หน่วยเลือกตั้ง" {
		t.Fatalf("ward fallback = %q", cols[FieldWard])
	}
}

func TestResolveColumnsConfiguredMarkers(t *testing.T) {
	syn := DefaultSynonyms()
	syn[FieldStatus] = append(syn[FieldStatus], "สถานะ")

	cols := ResolveColumns([]string{"เวลา", "หน่วย", "สถานะการรายงาน"}, syn)
	if cols[FieldStatus] != "สถานะการรายงาน" {
		t.Fatalf("marker-token match failed: %v", cols)
	}
}

func TestResolveColumnsFirstMatchWins(t *testing.T) {
	cols := ResolveColumns([]string{"status a", "status b"}, nil)
	if cols[FieldStatus] != "status a" {
		t.Fatalf("expected first matching header, got %q", cols[FieldStatus])
	}
}
