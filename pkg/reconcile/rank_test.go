package reconcile

import (
	"reflect"
	"testing"

	"github.com/wardwatch/wardwatch/pkg/report"
)

func TestTopWards(t *testing.T) {
	records := []report.Record{
		rec("A", at(9, 0, 0), 0),
		rec("B", at(9, 1, 0), 1),
		rec("B", at(9, 2, 0), 2),
		rec("C", at(9, 3, 0), 3),
		rec("B", at(9, 4, 0), 4),
		rec("C", at(9, 5, 0), 5),
	}

	got := TopWards(records, 3)
	if !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Fatalf("top = %v", got)
	}
}

func TestRankWardsFullOrder(t *testing.T) {
	records := []report.Record{
		rec("A", at(9, 0, 0), 0),
		rec("B", at(9, 1, 0), 1),
		rec("B", at(9, 2, 0), 2),
		rec("C", at(9, 3, 0), 3),
		rec("D", at(9, 4, 0), 4),
	}

	got := RankWards(records)
	if !reflect.DeepEqual(got, []string{"B", "A", "C", "D"}) {
		t.Fatalf("ranking = %v", got)
	}
}

func TestTopWardsCountsEverySubmission(t *testing.T) {
	// Five reports reconcile to one state but still count five here.
	var records []report.Record
	for i := 0; i < 5; i++ {
		records = append(records, rec("A", at(9, i, 0), i))
	}
	records = append(records, rec("B", at(10, 0, 0), 5))

	got := TopWards(records, 1)
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("top = %v", got)
	}
}

func TestTopWardsStableTies(t *testing.T) {
	records := []report.Record{
		rec("X", at(9, 0, 0), 0),
		rec("Y", at(9, 1, 0), 1),
		rec("Z", at(9, 2, 0), 2),
	}

	got := TopWards(records, 3)
	if !reflect.DeepEqual(got, []string{"X", "Y", "Z"}) {
		t.Fatalf("tied wards must keep first-encountered order, got %v", got)
	}
}

func TestTopWardsBounds(t *testing.T) {
	records := []report.Record{rec("A", at(9, 0, 0), 0)}

	if got := TopWards(records, 10); len(got) != 1 {
		t.Fatalf("k beyond ward count: %v", got)
	}
	if got := TopWards(records, 0); len(got) != 0 {
		t.Fatalf("k=0: %v", got)
	}
	if got := TopWards(nil, 3); len(got) != 0 {
		t.Fatalf("empty input: %v", got)
	}
	if got := TopWards([]report.Record{unparsed("", "x", 0)}, 3); len(got) != 0 {
		t.Fatalf("keyless records must not rank: %v", got)
	}
}
