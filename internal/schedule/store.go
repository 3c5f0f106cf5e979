// Package schedule talks to the external schedule store (the user's
// calendar of future transactions) and imports its records locally.
package schedule

import (
	"context"
	"fmt"
	"time"
)

// Record is one scheduled transaction as the external store reports it.
type Record struct {
	Ref           string    `json:"referenceId"`
	Title         string    `json:"title"`
	Amount        int64     `json:"amount"` // signed cents
	CheckNumber   int       `json:"checkNumber,omitempty"`
	OriginalDate  time.Time `json:"originalDate"`
	ExpectedDate  time.Time `json:"expectedDate"`
	PaidDate      time.Time `json:"paidDate,omitzero"`
	SourceAccount string    `json:"sourceAccount,omitempty"`
	DestAccount   string    `json:"destAccount,omitempty"`
}

// Update carries the mutable fields of an update push; nil fields are
// left unchanged on the remote item.
type Update struct {
	ExpectedDate *time.Time `json:"expectedDate,omitempty"`
	OriginalDate *time.Time `json:"originalDate,omitempty"`
	PaidDate     *time.Time `json:"paidDate,omitempty"`
	Amount       *int64     `json:"amount,omitempty"`
	Title        *string    `json:"title,omitempty"`
}

// Store is the external schedule store boundary. Every call is a
// fallible remote operation; retry policy belongs to the caller.
type Store interface {
	Fetch(ctx context.Context, start, end time.Time) ([]Record, error)
	CreateQuickItem(ctx context.Context, text string) (ref string, err error)
	RemoveItem(ctx context.Context, ref string) error
	UpdateItem(ctx context.Context, ref string, u Update) error
}

// PushFailure records one failed correction or re-date push. Failures
// are collected per item so one bad push never blocks the rest of a
// pass.
type PushFailure struct {
	Ref string
	Err error
}

func (p PushFailure) Error() string {
	return fmt.Sprintf("pushing update for %s: %v", p.Ref, p.Err)
}

func (p PushFailure) Unwrap() error { return p.Err }

// IntegrityError marks a record that violates the data model: a
// destination account without a source. It aborts only that record's
// import.
type IntegrityError struct {
	Ref    string
	Reason string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("scheduled record %s: %s", e.Ref, e.Reason)
}
