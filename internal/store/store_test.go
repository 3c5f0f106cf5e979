package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebb-dev/ebb/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ebb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertAccount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := model.Account{ID: "CHK", Type: "CHECKING", LedgerBalance: 10000, LedgerAsOf: day(1)}
	require.NoError(t, s.UpsertAccount(ctx, a))

	a.LedgerBalance = 7500
	a.LedgerAsOf = day(2)
	require.NoError(t, s.UpsertAccount(ctx, a))

	got, err := s.Account(ctx, "CHK")
	require.NoError(t, err)
	assert.Equal(t, int64(7500), got.LedgerBalance)
	assert.Equal(t, day(2), got.LedgerAsOf)

	all, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate")

	_, err = s.Account(ctx, "SAV")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBankTransactionCorrection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	txn := model.BankTransaction{
		ID: "t1", Account: "CHK", Type: "DEBIT", Amount: -2500,
		LedgerDate: day(3), Memo: "Rent", LedgerBalance: 7500,
	}
	require.NoError(t, s.InsertBankTransaction(ctx, txn))

	require.NoError(t, s.CorrectBankTransaction(ctx, "t1", day(4), 7400))

	got, err := s.BankTransaction(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, day(4), got.LedgerDate)
	assert.Equal(t, int64(7400), got.LedgerBalance)
	assert.Equal(t, int64(-2500), got.Amount, "amount is write-once")
	assert.Equal(t, "Rent", got.Memo, "memo is write-once")
}

func TestBankTransactionQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, txn := range []model.BankTransaction{
		{ID: "a1", Account: "CHK", Amount: -100, LedgerDate: day(1), LedgerBalance: 900},
		{ID: "a2", Account: "CHK", Amount: -100, LedgerDate: day(5), LedgerBalance: 800},
		{ID: "a3", Account: "SAV", Amount: 50, LedgerDate: day(5), LedgerBalance: 5000},
	} {
		require.NoError(t, s.InsertBankTransaction(ctx, txn))
	}

	on5, err := s.BankTransactionsOn(ctx, day(5))
	require.NoError(t, err)
	require.Len(t, on5, 2)
	assert.Equal(t, "a2", on5[0].ID)

	since, err := s.BankTransactionsSince(ctx, "CHK", day(2))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, "a2", since[0].ID)

	last, err := s.LatestBankTransactionBefore(ctx, "CHK", day(5))
	require.NoError(t, err)
	assert.Equal(t, "a1", last.ID)

	_, err = s.LatestBankTransactionBefore(ctx, "CHK", day(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHolds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	h := model.Hold{Account: "CHK", Amount: -1250, Description: "COFFEE"}
	require.NoError(t, s.InsertHold(ctx, h))
	require.NoError(t, s.SetHoldApplied(ctx, "CHK", h.Key(), day(2)))

	holds, err := s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, day(2), holds[0].DateApplied)

	require.NoError(t, s.DeleteHold(ctx, "CHK", h.Key()))
	holds, err = s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestScheduledQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, st := range []model.ScheduledTransaction{
		{Ref: "cal/1", Amount: -2500, Title: "Rent", ExpectedDate: day(3), OriginalDate: day(3), SourceAccount: "CHK"},
		{Ref: "cal/2", Amount: -900, Title: "Gym", ExpectedDate: day(9), OriginalDate: day(9), SourceAccount: "CHK", PaidDate: day(9), BankTxnID: "b7"},
	} {
		require.NoError(t, s.UpsertScheduledTransaction(ctx, st))
	}

	unresolved, err := s.UnresolvedScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "cal/1", unresolved[0].Ref)

	refs, err := s.ScheduledRefsInWindow(ctx, day(1), day(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"cal/1"}, refs)

	correlated, err := s.BankTransactionCorrelated(ctx, "b7")
	require.NoError(t, err)
	assert.True(t, correlated)

	correlated, err = s.BankTransactionCorrelated(ctx, "b8")
	require.NoError(t, err)
	assert.False(t, correlated)

	require.NoError(t, s.DeleteScheduledTransaction(ctx, "cal/1"))
	_, err = s.ScheduledTransaction(ctx, "cal/1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx *Tx) error {
		if err := tx.UpsertAccount(ctx, model.Account{ID: "CHK", Type: "CHECKING"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Account(ctx, "CHK")
	assert.ErrorIs(t, err, ErrNotFound, "failed transaction must leave no rows")
}

func TestHealthEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, feed := range []string{model.FeedLedger, model.FeedSchedule} {
		require.NoError(t, s.AppendHealthEvent(ctx, model.HealthEvent{
			Timestamp:   time.Date(2025, 3, 1, 12, i, 0, 0, time.UTC),
			CycleID:     "c1",
			Feed:        feed,
			Severity:    model.SeverityOK,
			Description: "fetched",
		}))
	}

	events, err := s.HealthEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.FeedSchedule, events[0].Feed, "newest first")
	assert.Equal(t, model.SeverityOK, events[0].Severity)
}
