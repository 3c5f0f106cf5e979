// Package match correlates unresolved scheduled transactions with the
// ledger transactions that fulfilled them.
package match

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/schedule"
	"github.com/ebb-dev/ebb/internal/store"
	"github.com/ebb-dev/ebb/internal/titleparse"
)

// amountTolerance is the largest cents difference the fuzzy tier will
// absorb (tips, rounding).
const amountTolerance = 5

// Matcher settles scheduled transactions against same-day ledger
// transactions and pushes each settlement back to the schedule store.
type Matcher struct {
	store  *store.Store
	remote schedule.Store
}

// NewMatcher creates a Matcher.
func NewMatcher(st *store.Store, remote schedule.Store) *Matcher {
	return &Matcher{store: st, remote: remote}
}

// Run performs one matching pass over every unresolved scheduled
// transaction. Per-item push failures are collected and returned; they
// never block the rest of the pass.
func (m *Matcher) Run(ctx context.Context) ([]schedule.PushFailure, error) {
	unresolved, err := m.store.UnresolvedScheduled(ctx)
	if err != nil {
		return nil, err
	}

	var failures []schedule.PushFailure
	for _, s := range unresolved {
		sameDay, err := m.store.BankTransactionsOn(ctx, s.ExpectedDate)
		if err != nil {
			return failures, err
		}

		var hit *model.BankTransaction
		if s.CheckNumber != 0 {
			// Check-numbered items match only by number; never fall
			// through to the fuzzy tier.
			hit = matchCheckNumber(sameDay, s.CheckNumber)
		} else {
			hit, err = m.matchCandidates(ctx, sameDay, s)
			if err != nil {
				return failures, err
			}
		}
		if hit == nil {
			continue
		}

		if err := m.settle(ctx, s, *hit); err != nil {
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

// matchCheckNumber returns the first same-day transaction bearing the
// exact check number, or nil.
func matchCheckNumber(cands []model.BankTransaction, checkNumber int) *model.BankTransaction {
	for i := range cands {
		if cands[i].CheckNumber == checkNumber {
			return &cands[i]
		}
	}
	return nil
}

// matchCandidates is the fuzzy tier: first same-day transaction that is
// not already correlated to a settled item, differs in amount by at
// most the tolerance, and whose memo contains every keyword of the
// scheduled title. First match wins; two look-alike candidates on the
// same day are resolved by encounter order. A scoring strategy would
// replace this function alone.
func (m *Matcher) matchCandidates(ctx context.Context, cands []model.BankTransaction, s model.ScheduledTransaction) (*model.BankTransaction, error) {
	keywords := titleparse.Parse(s.Title).Keywords()

	for i := range cands {
		b := cands[i]
		correlated, err := m.store.BankTransactionCorrelated(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if correlated {
			continue
		}
		if abs(b.Amount-s.Amount) > amountTolerance {
			continue
		}
		if !containsAll(titleparse.SplitWords(b.Memo), keywords) {
			continue
		}
		return &cands[i], nil
	}
	return nil, nil
}

// settle pushes the correction to the schedule store and, once the
// push is acknowledged, commits the settlement locally: paid date and
// exact amount from the ledger row, a paid marker on the title, and
// the bank correlation id.
func (m *Matcher) settle(ctx context.Context, s model.ScheduledTransaction, bank model.BankTransaction) error {
	paid := bank.LedgerDate
	amount := bank.Amount
	title := s.Title + " [paid]"

	if err := m.remote.UpdateItem(ctx, s.Ref, schedule.Update{
		PaidDate: &paid,
		Amount:   &amount,
		Title:    &title,
	}); err != nil {
		return schedule.PushFailure{Ref: s.Ref, Err: err}
	}

	s.PaidDate = paid
	s.Amount = amount
	s.Title = title
	s.BankTxnID = bank.ID
	if err := m.store.UpsertScheduledTransaction(ctx, s); err != nil {
		return fmt.Errorf("committing settlement for %s: %w", s.Ref, err)
	}
	return nil
}

func containsAll(words, keywords []string) bool {
	for _, kw := range keywords {
		if !slices.Contains(words, kw) {
			return false
		}
	}
	return true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
