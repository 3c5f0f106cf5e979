// Package forecast projects a contiguous day-by-day balance series
// from the ledger's balance snapshots and the unresolved scheduled
// transactions.
package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/store"
)

// Forecaster builds balance series per account. All arithmetic is in
// integer cents; there is nothing to round.
type Forecaster struct {
	store *store.Store
}

// NewForecaster creates a Forecaster.
func NewForecaster(st *store.Store) *Forecaster {
	return &Forecaster{store: st}
}

// Forecast returns one BalanceDay per calendar day: the last
// lookBehind days ending today (from the ledger, carry-forward
// filled), then lookAhead-1 further days applying unresolved scheduled
// transactions. Today appears once; its ledger-derived balance is the
// seed of the forward walk, so a day with both a ledger seed and a
// schedule hit is never double-applied.
func (f *Forecaster) Forecast(ctx context.Context, account string, today time.Time, lookBehind, lookAhead int) ([]model.BalanceDay, error) {
	today = model.DateOnly(today)

	// The trailing window is computed over an extra week so the first
	// kept day has a balance to inherit even across a quiet stretch.
	extStart := today.Add(-model.Days(lookBehind + 7))

	txns, err := f.store.BankTransactionsSince(ctx, account, extStart)
	if err != nil {
		return nil, err
	}
	// One seed per distinct ledger date. Later rows (by id) overwrite
	// earlier ones: the highest id on a date is chronologically last,
	// so its snapshot is that day's closing balance.
	seeds := make(map[time.Time]int64, len(txns))
	for _, t := range txns {
		seeds[t.LedgerDate] = t.LedgerBalance
	}

	running, err := f.startingBalance(ctx, account, extStart)
	if err != nil {
		return nil, err
	}

	var days []model.BalanceDay
	for d := extStart; !d.After(today); d = d.Add(model.Days(1)) {
		if bal, ok := seeds[d]; ok {
			running = bal
		}
		days = append(days, model.BalanceDay{Date: d, Balance: running})
	}
	if len(days) > lookBehind {
		days = days[len(days)-lookBehind:]
	}

	net, err := f.scheduledNetByDay(ctx, account)
	if err != nil {
		return nil, err
	}

	running = days[len(days)-1].Balance
	for i := 0; i < lookAhead; i++ {
		d := today.Add(model.Days(i))
		running += net[d]
		if i == 0 {
			days[len(days)-1].Balance = running
			continue
		}
		days = append(days, model.BalanceDay{Date: d, Balance: running})
	}
	return days, nil
}

// startingBalance finds the balance in effect just before the extended
// window: the snapshot of the account's last transaction before the
// window start, falling back to the account's reported ledger balance
// for accounts with no transaction history.
func (f *Forecaster) startingBalance(ctx context.Context, account string, before time.Time) (int64, error) {
	prev, err := f.store.LatestBankTransactionBefore(ctx, account, before)
	if err == nil {
		return prev.LedgerBalance, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}

	acct, err := f.store.Account(ctx, account)
	if err != nil {
		return 0, err
	}
	return acct.LedgerBalance, nil
}

// scheduledNetByDay sums the account's exposure to unresolved
// scheduled transactions per expected date. The account pays the
// signed amount as a source and receives it back as a transfer
// destination, so a transfer between two forecasted accounts moves
// money without changing the household total. Resolved items are
// already in the ledger and excluded by construction.
func (f *Forecaster) scheduledNetByDay(ctx context.Context, account string) (map[time.Time]int64, error) {
	unresolved, err := f.store.UnresolvedScheduled(ctx)
	if err != nil {
		return nil, err
	}

	net := make(map[time.Time]int64)
	for _, s := range unresolved {
		var effect int64
		if s.SourceAccount == account {
			effect += s.Amount
		}
		if s.DestAccount == account {
			effect -= s.Amount
		}
		if effect != 0 {
			net[s.ExpectedDate] += effect
		}
	}
	return net, nil
}
