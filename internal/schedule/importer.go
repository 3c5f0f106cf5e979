package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/store"
	"github.com/ebb-dev/ebb/internal/titleparse"
)

// Importer upserts calendar records into the local store and retires
// the ones that disappeared upstream.
type Importer struct {
	store          *store.Store
	defaultAccount string
}

// NewImporter creates a schedule Importer. Records without an explicit
// source account default to defaultAccount.
func NewImporter(st *store.Store, defaultAccount string) *Importer {
	return &Importer{store: st, defaultAccount: defaultAccount}
}

// Sync imports the full record list for the window [start, end] and
// deletes local scheduled transactions in the window that the pull no
// longer contains. The two-set diff is the only deletion signal the
// external store provides. Integrity violations abort only the
// offending record and are returned for reporting.
func (i *Importer) Sync(ctx context.Context, start, end time.Time, recs []Record) ([]IntegrityError, error) {
	var violations []IntegrityError
	incoming := make(map[string]bool, len(recs))

	for _, rec := range recs {
		incoming[rec.Ref] = true
		if err := i.ImportOne(ctx, rec); err != nil {
			var ie IntegrityError
			if errors.As(err, &ie) {
				violations = append(violations, ie)
				continue
			}
			return violations, err
		}
	}

	local, err := i.store.ScheduledRefsInWindow(ctx, model.DateOnly(start), model.DateOnly(end))
	if err != nil {
		return violations, err
	}
	for _, ref := range local {
		if incoming[ref] {
			continue
		}
		if err := i.store.DeleteScheduledTransaction(ctx, ref); err != nil {
			return violations, fmt.Errorf("retiring vanished item %s: %w", ref, err)
		}
	}
	return violations, nil
}

// ImportOne upserts a single record, refreshing every mutable field
// while preserving local-only state (bank correlation, late flag).
func (i *Importer) ImportOne(ctx context.Context, rec Record) error {
	src, dst := rec.SourceAccount, rec.DestAccount
	if dst != "" && src == "" {
		return IntegrityError{Ref: rec.Ref, Reason: "destination account without source"}
	}
	if src == "" {
		src = i.defaultAccount
	}

	checkNumber := rec.CheckNumber
	if checkNumber == 0 {
		// The calendar title may carry "#NNN" when the record field
		// was never filled in.
		checkNumber = titleparse.Parse(rec.Title).CheckNumber
	}

	s := model.ScheduledTransaction{
		Ref:           rec.Ref,
		CheckNumber:   checkNumber,
		Amount:        rec.Amount,
		Title:         rec.Title,
		ExpectedDate:  model.DateOnly(rec.ExpectedDate),
		OriginalDate:  model.DateOnly(rec.OriginalDate),
		SourceAccount: src,
		DestAccount:   dst,
		PaidDate:      model.DateOnly(rec.PaidDate),
	}

	existing, err := i.store.ScheduledTransaction(ctx, rec.Ref)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// new item
	case err != nil:
		return err
	default:
		s.BankTxnID = existing.BankTxnID
		s.Late = existing.Late
	}

	return i.store.UpsertScheduledTransaction(ctx, s)
}
