package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
)

const scheduledCols = `ref, bank_txn_id, check_number, amount, title, expected_date, original_date, source_account, dest_account, paid_date, late`

// ScheduledTransaction returns the scheduled transaction with the
// given calendar reference.
func (q queries) ScheduledTransaction(ctx context.Context, ref string) (model.ScheduledTransaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+scheduledCols+` FROM scheduled_txns WHERE ref = ?`, ref)

	s, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScheduledTransaction{}, fmt.Errorf("scheduled transaction %s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return model.ScheduledTransaction{}, fmt.Errorf("loading scheduled transaction %s: %w", ref, err)
	}
	return s, nil
}

// UpsertScheduledTransaction inserts or fully refreshes a scheduled
// transaction keyed by its calendar reference.
func (q queries) UpsertScheduledTransaction(ctx context.Context, s model.ScheduledTransaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO scheduled_txns (`+scheduledCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ref) DO UPDATE SET
			bank_txn_id = excluded.bank_txn_id,
			check_number = excluded.check_number,
			amount = excluded.amount,
			title = excluded.title,
			expected_date = excluded.expected_date,
			original_date = excluded.original_date,
			source_account = excluded.source_account,
			dest_account = excluded.dest_account,
			paid_date = excluded.paid_date,
			late = excluded.late`,
		s.Ref, s.BankTxnID, s.CheckNumber, s.Amount, s.Title,
		encodeDate(s.ExpectedDate), encodeDate(s.OriginalDate),
		s.SourceAccount, s.DestAccount, encodeDate(s.PaidDate), s.Late)
	if err != nil {
		return fmt.Errorf("upserting scheduled transaction %s: %w", s.Ref, err)
	}
	return nil
}

// DeleteScheduledTransaction removes a scheduled transaction that
// disappeared upstream (or was forgotten by the user).
func (q queries) DeleteScheduledTransaction(ctx context.Context, ref string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM scheduled_txns WHERE ref = ?`, ref)
	if err != nil {
		return fmt.Errorf("deleting scheduled transaction %s: %w", ref, err)
	}
	return nil
}

// UnresolvedScheduled returns every scheduled transaction with no paid
// date, ordered by (expected date, ref) so matching and aging passes
// process items in a stable encounter order.
func (q queries) UnresolvedScheduled(ctx context.Context) ([]model.ScheduledTransaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+scheduledCols+` FROM scheduled_txns
		WHERE paid_date = '' ORDER BY expected_date, ref`)
	if err != nil {
		return nil, fmt.Errorf("querying unresolved scheduled transactions: %w", err)
	}
	defer rows.Close()

	var out []model.ScheduledTransaction
	for rows.Next() {
		s, err := scanScheduled(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled transaction: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ScheduledRefsInWindow returns the refs of all scheduled transactions
// whose expected date falls in [start, end].
func (q queries) ScheduledRefsInWindow(ctx context.Context, start, end time.Time) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT ref FROM scheduled_txns
		WHERE expected_date >= ? AND expected_date <= ?
		ORDER BY ref`,
		encodeDate(start), encodeDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying scheduled refs in window: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning scheduled ref: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// BankTransactionCorrelated reports whether some scheduled transaction
// already settled against the given bank transaction.
func (q queries) BankTransactionCorrelated(ctx context.Context, bankTxnID string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scheduled_txns WHERE bank_txn_id = ?`, bankTxnID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking correlation for %s: %w", bankTxnID, err)
	}
	return n > 0, nil
}

func scanScheduled(r rowScanner) (model.ScheduledTransaction, error) {
	var s model.ScheduledTransaction
	var expected, original, paid string
	if err := r.Scan(&s.Ref, &s.BankTxnID, &s.CheckNumber, &s.Amount, &s.Title,
		&expected, &original, &s.SourceAccount, &s.DestAccount, &paid, &s.Late); err != nil {
		return model.ScheduledTransaction{}, err
	}
	var err error
	if s.ExpectedDate, err = decodeDate(expected); err != nil {
		return model.ScheduledTransaction{}, err
	}
	if s.OriginalDate, err = decodeDate(original); err != nil {
		return model.ScheduledTransaction{}, err
	}
	if s.PaidDate, err = decodeDate(paid); err != nil {
		return model.ScheduledTransaction{}, err
	}
	return s, nil
}
