package report

import (
	"strings"

	"github.com/wardwatch/wardwatch/pkg/sheet"
)

// minRealFields is the blank-row guard: a keyless row with no timestamp
// needs at least this many other non-empty cells to count as a real
// submission rather than a templated blank line.
const minRealFields = 3

// Normalize turns a snapshot into records, resolving columns once for the
// whole snapshot and dropping rows that are not real submissions.
// SourceIndex is the row's position in the snapshot, counted before any
// drop, so it still addresses the remote row.
func Normalize(snap sheet.Snapshot, syn Synonyms) []Record {
	cols := ResolveColumns(snap.Headers, syn)
	return NormalizeWithColumns(snap, cols)
}

// NormalizeWithColumns is Normalize with a pre-resolved column map, for
// callers that process several snapshots of the same sheet.
func NormalizeWithColumns(snap sheet.Snapshot, cols ColumnMap) []Record {
	records := make([]Record, 0, len(snap.Rows))

	for i, row := range snap.Rows {
		ward := strings.TrimSpace(row[cols[FieldWard]])
		rawTS := strings.TrimSpace(row[cols[FieldTimestamp]])

		if ward == "" && rawTS == "" && countOtherFields(row, cols) < minRealFields {
			continue
		}

		fields := make(map[string]string, len(row))
		for k, v := range row {
			fields[k] = v
		}

		records = append(records, Record{
			Ward:         ward,
			RawTimestamp: rawTS,
			ParsedAt:     ParseTimestamp(rawTS),
			SourceIndex:  i,
			Flags: Flags{
				Status:    flagSet(row[cols[FieldStatus]]),
				Reject:    flagSet(row[cols[FieldReject]]),
				CloseCase: flagSet(row[cols[FieldCloseCase]]),
			},
			Fields: fields,
		})
	}

	return records
}

// flagSet treats the sheet's literal "1" and "1.0" as true; anything else,
// including an absent column, is false.
func flagSet(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "1" || cell == "1.0"
}

// countOtherFields counts non-empty cells outside the ward and timestamp
// columns.
func countOtherFields(row sheet.RawRow, cols ColumnMap) int {
	n := 0
	for label, v := range row {
		if label == cols[FieldWard] || label == cols[FieldTimestamp] {
			continue
		}
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
