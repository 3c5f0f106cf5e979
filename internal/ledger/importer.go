// Package ledger imports normalized bank statements into the store.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/store"
)

// Importer upserts one statement's accounts, transactions, and holds.
// All writes for a statement commit together: a mid-import failure
// never leaves account balances without their transactions.
type Importer struct {
	store *store.Store
}

// NewImporter creates a ledger Importer.
func NewImporter(st *store.Store) *Importer {
	return &Importer{store: st}
}

// ImportStatement applies a full statement inside one transaction.
// Re-importing the same statement is a no-op apart from retroactive
// corrections the bank may have issued.
func (i *Importer) ImportStatement(ctx context.Context, st model.Statement) error {
	return i.store.InTx(ctx, func(tx *store.Tx) error {
		for _, as := range st.Accounts {
			if err := importAccount(ctx, tx, as); err != nil {
				return fmt.Errorf("importing account %s: %w", as.Account.ID, err)
			}
		}
		return nil
	})
}

func importAccount(ctx context.Context, tx *store.Tx, as model.AccountStatement) error {
	acct := as.Account
	acct.LedgerAsOf = model.DateOnly(acct.LedgerAsOf)
	acct.AvailableAsOf = model.DateOnly(acct.AvailableAsOf)
	if err := tx.UpsertAccount(ctx, acct); err != nil {
		return err
	}

	for _, t := range as.Transactions {
		t.Account = acct.ID
		t.LedgerDate = model.DateOnly(t.LedgerDate)
		t.UserDate = model.DateOnly(t.UserDate)
		if err := importTransaction(ctx, tx, t); err != nil {
			return err
		}
	}

	return importHolds(ctx, tx, acct.ID, as.Holds)
}

// importTransaction inserts a new row, or applies a retroactive
// correction when the bank revised the ledger date or the balance
// snapshot of a known transaction. Every other field is write-once.
func importTransaction(ctx context.Context, tx *store.Tx, t model.BankTransaction) error {
	existing, err := tx.BankTransaction(ctx, t.ID)
	if errors.Is(err, store.ErrNotFound) {
		return tx.InsertBankTransaction(ctx, t)
	}
	if err != nil {
		return err
	}

	if !existing.LedgerDate.Equal(t.LedgerDate) || existing.LedgerBalance != t.LedgerBalance {
		return tx.CorrectBankTransaction(ctx, t.ID, t.LedgerDate, t.LedgerBalance)
	}
	return nil
}

// importHolds reconciles the incoming hold list against the stored
// one: new holds are inserted, a known hold gets its dateApplied
// backfilled, and stored holds absent from the feed are scrubbed
// (released or canceled). Holds with an empty description are feed
// noise and ignored entirely.
func importHolds(ctx context.Context, tx *store.Tx, account string, incoming []model.Hold) error {
	stored, err := tx.HoldsForAccount(ctx, account)
	if err != nil {
		return err
	}
	storedByKey := make(map[model.HoldKey]model.Hold, len(stored))
	for _, h := range stored {
		storedByKey[h.Key()] = h
	}

	seen := make(map[model.HoldKey]bool, len(incoming))
	for _, h := range incoming {
		if h.Description == "" {
			continue
		}
		h.Account = account
		h.DateApplied = model.DateOnly(h.DateApplied)
		seen[h.Key()] = true

		prev, ok := storedByKey[h.Key()]
		if !ok {
			if err := tx.InsertHold(ctx, h); err != nil {
				return err
			}
			continue
		}
		if prev.DateApplied.IsZero() && !h.DateApplied.IsZero() {
			if err := tx.SetHoldApplied(ctx, account, h.Key(), h.DateApplied); err != nil {
				return err
			}
		}
	}

	for key := range storedByKey {
		if !seen[key] {
			if err := tx.DeleteHold(ctx, account, key); err != nil {
				return err
			}
		}
	}
	return nil
}
