package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ebb-dev/ebb/internal/model"
)

// UpsertAccount inserts or wholesale-overwrites an account row.
func (q queries) UpsertAccount(ctx context.Context, a model.Account) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts
			(id, type, ledger_balance, ledger_as_of, available_balance, available_as_of, regd_count, regd_max)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			ledger_balance = excluded.ledger_balance,
			ledger_as_of = excluded.ledger_as_of,
			available_balance = excluded.available_balance,
			available_as_of = excluded.available_as_of,
			regd_count = excluded.regd_count,
			regd_max = excluded.regd_max`,
		a.ID, a.Type, a.LedgerBalance, encodeDate(a.LedgerAsOf),
		a.AvailableBalance, encodeDate(a.AvailableAsOf), a.RegDCount, a.RegDMax)
	if err != nil {
		return fmt.Errorf("upserting account %s: %w", a.ID, err)
	}
	return nil
}

// Account returns the account with the given bank-assigned id.
func (q queries) Account(ctx context.Context, id string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, type, ledger_balance, ledger_as_of, available_balance, available_as_of, regd_count, regd_max
		FROM accounts WHERE id = ?`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %s: %w", id, err)
	}
	return a, nil
}

// Accounts returns all accounts ordered by id.
func (q queries) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, type, ledger_balance, ledger_as_of, available_balance, available_as_of, regd_count, regd_max
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (model.Account, error) {
	var a model.Account
	var ledgerAsOf, availAsOf string
	if err := r.Scan(&a.ID, &a.Type, &a.LedgerBalance, &ledgerAsOf,
		&a.AvailableBalance, &availAsOf, &a.RegDCount, &a.RegDMax); err != nil {
		return model.Account{}, err
	}
	var err error
	if a.LedgerAsOf, err = decodeDate(ledgerAsOf); err != nil {
		return model.Account{}, err
	}
	if a.AvailableAsOf, err = decodeDate(availAsOf); err != nil {
		return model.Account{}, err
	}
	return a, nil
}
