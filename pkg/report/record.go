package report

import "time"

// Flags are the boolean indicators extracted from a report row. In the
// source sheet they are literal "1" / "1.0" cells.
type Flags struct {
	Status    bool `json:"status"`
	Reject    bool `json:"reject"`
	CloseCase bool `json:"closeCase"`
}

// Record is one normalized report row. Created once per raw row and never
// mutated after creation; reconciliation picks records, it does not edit
// them.
type Record struct {
	// Ward is the reporting-unit key. May be empty for rows that carry
	// real data but no resolvable key; such rows still count toward
	// volume aggregates but can never be reconciled or tiled.
	Ward         string `json:"ward"`
	RawTimestamp string `json:"rawTimestamp"`

	// ParsedAt is nil when the raw timestamp is empty or unparsable.
	ParsedAt *time.Time `json:"parsedAt"`

	// SourceIndex is the row's position in the original fetch order.
	// Used as a recency tie-break and to address the remote row for
	// write-back.
	SourceIndex int `json:"sourceIndex"`

	Flags Flags `json:"flags"`

	// Fields retains every original column so downstream consumers can
	// read columns the pipeline itself does not interpret
	// (attachment links, free-text notes).
	Fields map[string]string `json:"fields"`
}
