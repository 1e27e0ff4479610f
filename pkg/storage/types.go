package storage

import "time"

// CycleStat summarizes one completed poll cycle for one source.
type CycleStat struct {
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Duration  time.Duration `json:"duration"`
	RawRows   int           `json:"rawRows"`
	DayRows   int           `json:"dayRows"`
	Reported  int           `json:"reported"`
	Completed int           `json:"completed"`
	Pending   int           `json:"pending"`
}

// Quality event kinds.
const (
	EventUniverseMismatch     = "universe_mismatch"
	EventOrderTieBreak        = "order_tiebreak"
	EventUnparsableTimestamps = "unparsable_timestamp"
)

// QualityEvent is one data-quality signal worth keeping an eye on:
// a reconciled ward that matches no universe entry, a reconciliation
// decided by fetch order, or a batch of rows whose timestamps could not
// be parsed.
type QualityEvent struct {
	OccurredAt time.Time `json:"occurredAt"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	Ward       string    `json:"ward,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}
