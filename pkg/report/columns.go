package report

import "strings"

// Field names a logical column the pipeline interprets.
type Field string

const (
	FieldWard      Field = "ward"
	FieldTimestamp Field = "timestamp"
	FieldStatus    Field = "status"
	FieldReject    Field = "reject"
	FieldCloseCase Field = "closecase"
)

// Synonyms maps each logical field to the marker strings that identify its
// header. Matching is case-insensitive substring containment, so markers
// work for any script the sheet's editors write headers in.
type Synonyms map[Field][]string

// DefaultSynonyms covers the headers the stock report template uses.
// Deployments with localized headers extend these lists from config.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		FieldWard:      {"ward", "unit", "station"},
		FieldTimestamp: {"timestamp", "time"},
		FieldStatus:    {"status", "checked"},
		FieldReject:    {"reject"},
		FieldCloseCase: {"close", "closecase"},
	}
}

// ColumnMap resolves each logical field to the header label its cells live
// under. Fields absent from the map were not found in the snapshot.
type ColumnMap map[Field]string

// ResolveColumns evaluates the synonym rules once against a snapshot's
// header list and returns the column map reused for every row. First
// matching header wins per field. Positional fallbacks: the timestamp
// defaults to the first column and the ward to the second, matching the
// form-export layout this tolerates input for.
func ResolveColumns(headers []string, syn Synonyms) ColumnMap {
	if syn == nil {
		syn = DefaultSynonyms()
	}

	cols := ColumnMap{}
	for field, markers := range syn {
		for _, h := range headers {
			if h == "" {
				continue
			}
			if headerMatches(h, markers) {
				cols[field] = h
				break
			}
		}
	}

	if _, ok := cols[FieldTimestamp]; !ok && len(headers) > 0 && headers[0] != "" {
		cols[FieldTimestamp] = headers[0]
	}
	if _, ok := cols[FieldWard]; !ok && len(headers) > 1 && headers[1] != "" {
		cols[FieldWard] = headers[1]
	}

	return cols
}

func headerMatches(header string, markers []string) bool {
	h := strings.ToLower(header)
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(h, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
