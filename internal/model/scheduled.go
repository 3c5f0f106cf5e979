package model

import "time"

// ScheduledTransaction is a user-declared future transaction awaiting
// confirmation against the ledger. Created by the schedule importer,
// settled by the matcher, aged by the bubbler, and deleted when it
// disappears from a later calendar pull.
type ScheduledTransaction struct {
	Ref           string // calendar item reference, primary key
	BankTxnID     string // id of the settling BankTransaction, "" until matched
	CheckNumber   int    // 0 = none
	Amount        int64  // signed cents
	Title         string
	ExpectedDate  time.Time
	OriginalDate  time.Time // user-entered date, survives bubbling
	SourceAccount string
	DestAccount   string // set only for transfers
	PaidDate      time.Time
	Late          bool
}

// Resolved reports whether the transaction has settled against the
// ledger.
func (s ScheduledTransaction) Resolved() bool {
	return !s.PaidDate.IsZero()
}

// Transfer reports whether the transaction moves money between two
// tracked accounts.
func (s ScheduledTransaction) Transfer() bool {
	return s.DestAccount != ""
}
