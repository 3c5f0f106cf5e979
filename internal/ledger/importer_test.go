package ledger

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

func chkStatement(txns []model.BankTransaction, holds []model.Hold) model.Statement {
	return model.Statement{Accounts: []model.AccountStatement{{
		Account: model.Account{
			ID: "CHK", Type: "CHECKING",
			LedgerBalance: 10000, LedgerAsOf: day(1),
			AvailableBalance: 9500, AvailableAsOf: day(1),
		},
		Transactions: txns,
		Holds:        holds,
	}}}
}

func TestImportIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s)
	ctx := context.Background()

	st := chkStatement([]model.BankTransaction{
		{ID: "t1", Type: "DEBIT", Amount: -2500, LedgerDate: day(1), Memo: "Rent", LedgerBalance: 7500},
		{ID: "t2", Type: "CREDIT", Amount: 100000, LedgerDate: day(1), Memo: "Payroll", LedgerBalance: 107500},
	}, nil)

	require.NoError(t, imp.ImportStatement(ctx, st))
	require.NoError(t, imp.ImportStatement(ctx, st))

	txns, err := s.BankTransactionsSince(ctx, "CHK", day(1))
	require.NoError(t, err)
	assert.Len(t, txns, 2, "no duplicate rows on re-import")

	acct, err := s.Account(ctx, "CHK")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), acct.LedgerBalance)
}

func TestRetroactiveCorrection(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s)
	ctx := context.Background()

	first := chkStatement([]model.BankTransaction{
		{ID: "t1", Type: "DEBIT", Amount: -2500, LedgerDate: day(1), Memo: "Rent", LedgerBalance: 7500},
	}, nil)
	require.NoError(t, imp.ImportStatement(ctx, first))

	// The bank revises posting date and balance snapshot.
	second := chkStatement([]model.BankTransaction{
		{ID: "t1", Type: "DEBIT", Amount: -2500, LedgerDate: day(2), Memo: "Rent", LedgerBalance: 7400},
	}, nil)
	require.NoError(t, imp.ImportStatement(ctx, second))

	got, err := s.BankTransaction(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, day(2), got.LedgerDate)
	assert.Equal(t, int64(7400), got.LedgerBalance)
	assert.Equal(t, int64(-2500), got.Amount)
	assert.Equal(t, "Rent", got.Memo)
	assert.Equal(t, "DEBIT", got.Type)
}

func TestHoldScrubbing(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s)
	ctx := context.Background()

	withHolds := chkStatement(nil, []model.Hold{
		{Amount: -1250, Description: "COFFEE"},
		{Amount: -4000, Description: "GAS"},
	})
	require.NoError(t, imp.ImportStatement(ctx, withHolds))

	// GAS disappears: released or canceled.
	require.NoError(t, imp.ImportStatement(ctx, chkStatement(nil, []model.Hold{
		{Amount: -1250, Description: "COFFEE"},
	})))

	holds, err := s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "COFFEE", holds[0].Description)

	// Re-adding the identical key must not duplicate.
	require.NoError(t, imp.ImportStatement(ctx, withHolds))
	holds, err = s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	assert.Len(t, holds, 2)
}

func TestHoldDateAppliedBackfill(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s)
	ctx := context.Background()

	require.NoError(t, imp.ImportStatement(ctx, chkStatement(nil, []model.Hold{
		{Amount: -1250, Description: "COFFEE"},
	})))
	require.NoError(t, imp.ImportStatement(ctx, chkStatement(nil, []model.Hold{
		{Amount: -1250, Description: "COFFEE", DateApplied: day(2)},
	})))

	holds, err := s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, day(2), holds[0].DateApplied)
}

func TestNullDescriptionHoldIgnored(t *testing.T) {
	s := openTestStore(t)
	imp := NewImporter(s)
	ctx := context.Background()

	require.NoError(t, imp.ImportStatement(ctx, chkStatement(nil, []model.Hold{
		{Amount: -1250, Description: ""},
	})))

	holds, err := s.HoldsForAccount(ctx, "CHK")
	require.NoError(t, err)
	assert.Empty(t, holds)
}
