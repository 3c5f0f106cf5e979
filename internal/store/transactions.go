package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
)

const bankTxnCols = `id, account, type, amount, user_date, ledger_date, memo, check_number, ledger_balance`

// BankTransaction returns the transaction with the given bank id.
func (q queries) BankTransaction(ctx context.Context, id string) (model.BankTransaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+bankTxnCols+` FROM bank_txns WHERE id = ?`, id)

	t, err := scanBankTxn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BankTransaction{}, fmt.Errorf("bank transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("loading bank transaction %s: %w", id, err)
	}
	return t, nil
}

// InsertBankTransaction creates a new ledger row. Rows are write-once
// except for the two correction fields; see CorrectBankTransaction.
func (q queries) InsertBankTransaction(ctx context.Context, t model.BankTransaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO bank_txns (`+bankTxnCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Account, t.Type, t.Amount, encodeDate(t.UserDate),
		encodeDate(t.LedgerDate), t.Memo, t.CheckNumber, t.LedgerBalance)
	if err != nil {
		return fmt.Errorf("inserting bank transaction %s: %w", t.ID, err)
	}
	return nil
}

// CorrectBankTransaction applies a retroactive bank-side revision of
// the ledger date and ledger-balance snapshot, the only two mutable
// fields on a ledger row.
func (q queries) CorrectBankTransaction(ctx context.Context, id string, ledgerDate time.Time, ledgerBalance int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE bank_txns SET ledger_date = ?, ledger_balance = ? WHERE id = ?`,
		encodeDate(ledgerDate), ledgerBalance, id)
	if err != nil {
		return fmt.Errorf("correcting bank transaction %s: %w", id, err)
	}
	return nil
}

// BankTransactionsOn returns every transaction whose ledger date equals
// day, in insertion (id) order.
func (q queries) BankTransactionsOn(ctx context.Context, day time.Time) ([]model.BankTransaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+bankTxnCols+` FROM bank_txns WHERE ledger_date = ? ORDER BY id`,
		encodeDate(day))
	if err != nil {
		return nil, fmt.Errorf("querying bank transactions on %s: %w", encodeDate(day), err)
	}
	return collectBankTxns(rows)
}

// BankTransactionsSince returns an account's transactions with ledger
// date >= from, ordered by (ledger date, id).
func (q queries) BankTransactionsSince(ctx context.Context, account string, from time.Time) ([]model.BankTransaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+bankTxnCols+` FROM bank_txns
		WHERE account = ? AND ledger_date >= ?
		ORDER BY ledger_date, id`,
		account, encodeDate(from))
	if err != nil {
		return nil, fmt.Errorf("querying bank transactions for %s: %w", account, err)
	}
	return collectBankTxns(rows)
}

// LatestBankTransactionBefore returns an account's chronologically last
// transaction with ledger date < before, or ErrNotFound.
func (q queries) LatestBankTransactionBefore(ctx context.Context, account string, before time.Time) (model.BankTransaction, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+bankTxnCols+` FROM bank_txns
		WHERE account = ? AND ledger_date < ?
		ORDER BY ledger_date DESC, id DESC LIMIT 1`,
		account, encodeDate(before))

	t, err := scanBankTxn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BankTransaction{}, ErrNotFound
	}
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("loading latest bank transaction for %s: %w", account, err)
	}
	return t, nil
}

func collectBankTxns(rows *sql.Rows) ([]model.BankTransaction, error) {
	defer rows.Close()
	var out []model.BankTransaction
	for rows.Next() {
		t, err := scanBankTxn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanBankTxn(r rowScanner) (model.BankTransaction, error) {
	var t model.BankTransaction
	var userDate, ledgerDate string
	if err := r.Scan(&t.ID, &t.Account, &t.Type, &t.Amount, &userDate,
		&ledgerDate, &t.Memo, &t.CheckNumber, &t.LedgerBalance); err != nil {
		return model.BankTransaction{}, err
	}
	var err error
	if t.UserDate, err = decodeDate(userDate); err != nil {
		return model.BankTransaction{}, err
	}
	if t.LedgerDate, err = decodeDate(ledgerDate); err != nil {
		return model.BankTransaction{}, err
	}
	return t, nil
}
