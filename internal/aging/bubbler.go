// Package aging advances overdue scheduled transactions ("bubbling")
// and flags the ones that have waited too long for human review.
package aging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/schedule"
	"github.com/ebb-dev/ebb/internal/store"
)

// Bubbler applies the aging state machine to unresolved scheduled
// transactions:
//
//   - not yet overdue: nothing.
//   - overdue with a check number: bubble to today, indefinitely
//     (checks take as long as they take).
//   - overdue within the grace window: bubble to today.
//   - overdue beyond grace: flag late and wait for a human to
//     reschedule or forget it.
type Bubbler struct {
	store     *store.Store
	remote    schedule.Store
	importer  *schedule.Importer
	graceDays int
}

// NewBubbler creates a Bubbler with the given grace window in days.
func NewBubbler(st *store.Store, remote schedule.Store, imp *schedule.Importer, graceDays int) *Bubbler {
	return &Bubbler{store: st, remote: remote, importer: imp, graceDays: graceDays}
}

// Run performs one aging pass. Push failures are collected per item.
func (b *Bubbler) Run(ctx context.Context, today time.Time) ([]schedule.PushFailure, error) {
	today = model.DateOnly(today)

	unresolved, err := b.store.UnresolvedScheduled(ctx)
	if err != nil {
		return nil, err
	}

	var failures []schedule.PushFailure
	for _, s := range unresolved {
		if !s.ExpectedDate.Before(today) {
			continue // pending
		}

		overdueFor := today.Sub(s.OriginalDate)
		if s.CheckNumber == 0 && overdueFor > model.Days(b.graceDays) {
			if s.Late {
				continue
			}
			s.Late = true
			if err := b.store.UpsertScheduledTransaction(ctx, s); err != nil {
				return failures, fmt.Errorf("flagging %s late: %w", s.Ref, err)
			}
			continue
		}

		if err := b.bubble(ctx, s, today); err != nil {
			var pf schedule.PushFailure
			if errors.As(err, &pf) {
				failures = append(failures, pf)
				continue
			}
			return failures, err
		}
	}
	return failures, nil
}

// bubble re-dates an item to today in the external store, then
// re-imports it locally so the next matcher pass sees the new expected
// date.
func (b *Bubbler) bubble(ctx context.Context, s model.ScheduledTransaction, today time.Time) error {
	if err := b.remote.UpdateItem(ctx, s.Ref, schedule.Update{ExpectedDate: &today}); err != nil {
		return schedule.PushFailure{Ref: s.Ref, Err: err}
	}

	return b.importer.ImportOne(ctx, schedule.Record{
		Ref:           s.Ref,
		Title:         s.Title,
		Amount:        s.Amount,
		CheckNumber:   s.CheckNumber,
		OriginalDate:  s.OriginalDate,
		ExpectedDate:  today,
		SourceAccount: s.SourceAccount,
		DestAccount:   s.DestAccount,
	})
}

// Reschedule is the human "try again" transition on a late item: both
// dates move to newDate and the late flag clears.
func (b *Bubbler) Reschedule(ctx context.Context, ref string, newDate time.Time) error {
	newDate = model.DateOnly(newDate)

	s, err := b.store.ScheduledTransaction(ctx, ref)
	if err != nil {
		return err
	}

	if err := b.remote.UpdateItem(ctx, ref, schedule.Update{
		ExpectedDate: &newDate,
		OriginalDate: &newDate,
	}); err != nil {
		return schedule.PushFailure{Ref: ref, Err: err}
	}

	s.ExpectedDate = newDate
	s.OriginalDate = newDate
	s.Late = false
	return b.store.UpsertScheduledTransaction(ctx, s)
}

// Forget is the human "never mind" transition: the item is removed
// from the external store and deleted locally.
func (b *Bubbler) Forget(ctx context.Context, ref string) error {
	if err := b.remote.RemoveItem(ctx, ref); err != nil {
		return schedule.PushFailure{Ref: ref, Err: err}
	}
	return b.store.DeleteScheduledTransaction(ctx, ref)
}
