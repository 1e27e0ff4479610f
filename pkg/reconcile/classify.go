package reconcile

import "github.com/wardwatch/wardwatch/pkg/report"

// Status is the closed set of states a universe ward can be in.
type Status string

const (
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
	StatusMissing   Status = "Missing"
)

// Classify maps a reconciled record's flags to a status. Rejection is a
// terminal override: it supersedes a completed/checked state.
func Classify(rec report.Record) Status {
	switch {
	case rec.Flags.Reject:
		return StatusRejected
	case rec.Flags.Status:
		return StatusCompleted
	default:
		return StatusPending
	}
}
