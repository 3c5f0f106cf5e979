package model

import "time"

// Feed names for health events.
const (
	FeedLedger   = "ledger"
	FeedSchedule = "schedule"
)

// Severity classifies a health event.
type Severity string

const (
	SeverityOK    Severity = "OK"
	SeverityError Severity = "ERROR"
)

// HealthEvent is one row of the append-only service-health log,
// written once per feed per synchronization cycle. Operator
// visibility only; the reconciliation logic never reads it.
type HealthEvent struct {
	ID          int64
	Timestamp   time.Time
	CycleID     string
	Feed        string
	Severity    Severity
	Description string
}
