package sheet

import (
	"context"
	"time"
)

// RawRow maps a column label to the cell text for one submitted report row.
// Labels come from the remote sheet and are not guaranteed unique or stable.
type RawRow map[string]string

// Snapshot is one fetch of a logical source: the header list in column
// order plus every row in original fetch order. Immutable once fetched.
type Snapshot struct {
	Source    string
	Headers   []string
	Rows      []RawRow
	FetchedAt time.Time
}

// Source fetches report rows for one named logical source
// (e.g. "beforeopen", "aftercount", "incident").
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Snapshot, error)
}

// Writer applies a single field update to one remote row. The row is
// addressed by its position in the original, unreconciled fetch order;
// reconciled records carry that index for exactly this purpose.
// The wire protocol is up to the implementation.
type Writer interface {
	UpdateCell(ctx context.Context, source string, rowIndex int, column, value string) error
}
