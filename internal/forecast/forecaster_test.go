package forecast

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ebb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedAccount(t *testing.T, s *store.Store, id string, balance int64) {
	t.Helper()
	require.NoError(t, s.UpsertAccount(context.Background(), model.Account{
		ID: id, Type: "CHECKING", LedgerBalance: balance, LedgerAsOf: day(1),
	}))
}

func balanceOn(t *testing.T, days []model.BalanceDay, d time.Time) int64 {
	t.Helper()
	for _, bd := range days {
		if bd.Date.Equal(d) {
			return bd.Balance
		}
	}
	t.Fatalf("no balance entry for %s", d.Format("2006-01-02"))
	return 0
}

func TestCarryForwardFill(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "CHK", 1000)

	// Activity on day 1 and day 5 of a 7-day window ending day 7.
	require.NoError(t, s.InsertBankTransaction(ctx, model.BankTransaction{
		ID: "b1", Account: "CHK", Amount: -100, LedgerDate: day(1), LedgerBalance: 900,
	}))
	require.NoError(t, s.InsertBankTransaction(ctx, model.BankTransaction{
		ID: "b2", Account: "CHK", Amount: -100, LedgerDate: day(5), LedgerBalance: 800,
	}))

	days, err := NewForecaster(s).Forecast(ctx, "CHK", day(7), 7, 4)
	require.NoError(t, err)

	require.Len(t, days, 7+4-1, "today is shared between the two windows")
	assert.Equal(t, day(1), days[0].Date)
	for d := 1; d <= 4; d++ {
		assert.Equal(t, int64(900), balanceOn(t, days, day(d)), "day %d inherits day 1", d)
	}
	for d := 5; d <= 7; d++ {
		assert.Equal(t, int64(800), balanceOn(t, days, day(d)), "day %d inherits day 5", d)
	}
}

func TestSameDayLaterTransactionWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "CHK", 1000)

	// Two transactions on one day; the higher id is chronologically last.
	require.NoError(t, s.InsertBankTransaction(ctx, model.BankTransaction{
		ID: "b1", Account: "CHK", Amount: -100, LedgerDate: day(3), LedgerBalance: 900,
	}))
	require.NoError(t, s.InsertBankTransaction(ctx, model.BankTransaction{
		ID: "b2", Account: "CHK", Amount: -200, LedgerDate: day(3), LedgerBalance: 700,
	}))

	days, err := NewForecaster(s).Forecast(ctx, "CHK", day(3), 4, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(700), balanceOn(t, days, day(3)))
}

func TestForwardAppliesUnresolved(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "CHK", 5000)

	require.NoError(t, s.InsertBankTransaction(ctx, model.BankTransaction{
		ID: "b1", Account: "CHK", Amount: 0, LedgerDate: day(10), LedgerBalance: 5000,
	}))
	require.NoError(t, s.UpsertScheduledTransaction(ctx, model.ScheduledTransaction{
		Ref: "cal/1", Amount: -2000, Title: "Rent", ExpectedDate: day(12),
		OriginalDate: day(12), SourceAccount: "CHK",
	}))
	// A resolved item must never be counted again.
	require.NoError(t, s.UpsertScheduledTransaction(ctx, model.ScheduledTransaction{
		Ref: "cal/2", Amount: -9999, Title: "Paid", ExpectedDate: day(12),
		OriginalDate: day(12), SourceAccount: "CHK", PaidDate: day(12), BankTxnID: "b1",
	}))

	days, err := NewForecaster(s).Forecast(ctx, "CHK", day(10), 4, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), balanceOn(t, days, day(10)))
	assert.Equal(t, int64(5000), balanceOn(t, days, day(11)))
	assert.Equal(t, int64(3000), balanceOn(t, days, day(12)))
	assert.Equal(t, int64(3000), balanceOn(t, days, day(14)), "carried forward")
}

func TestTransferNeutrality(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "A", 5000)
	seedAccount(t, s, "B", 2000)

	// 1000 cents moving A -> B.
	require.NoError(t, s.UpsertScheduledTransaction(ctx, model.ScheduledTransaction{
		Ref: "cal/1", Amount: -1000, Title: "Savings transfer", ExpectedDate: day(12),
		OriginalDate: day(12), SourceAccount: "A", DestAccount: "B",
	}))

	fc := NewForecaster(s)
	daysA, err := fc.Forecast(ctx, "A", day(10), 4, 5)
	require.NoError(t, err)
	daysB, err := fc.Forecast(ctx, "B", day(10), 4, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(4000), balanceOn(t, daysA, day(12)))
	assert.Equal(t, int64(3000), balanceOn(t, daysB, day(12)))

	sumBefore := balanceOn(t, daysA, day(11)) + balanceOn(t, daysB, day(11))
	sumAfter := balanceOn(t, daysA, day(12)) + balanceOn(t, daysB, day(12))
	assert.Equal(t, sumBefore, sumAfter, "household total unchanged by the transfer")
}

func TestTodayUnresolvedApplied(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "CHK", 5000)

	// A bubbled item expected today but not yet cleared reduces today's
	// projection below the ledger balance.
	require.NoError(t, s.UpsertScheduledTransaction(ctx, model.ScheduledTransaction{
		Ref: "cal/1", Amount: -500, Title: "Gym", ExpectedDate: day(10),
		OriginalDate: day(8), SourceAccount: "CHK",
	}))

	days, err := NewForecaster(s).Forecast(ctx, "CHK", day(10), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), balanceOn(t, days, day(10)))
}

func TestNoHistoryFallsBackToAccountBalance(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedAccount(t, s, "CHK", 12345)

	days, err := NewForecaster(s).Forecast(ctx, "CHK", day(10), 5, 4)
	require.NoError(t, err)
	require.Len(t, days, 5+4-1)
	for _, bd := range days {
		assert.Equal(t, int64(12345), bd.Balance)
	}
}
