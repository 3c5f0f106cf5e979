package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
)

// HoldsForAccount returns the account's stored holds.
func (q queries) HoldsForAccount(ctx context.Context, account string) ([]model.Hold, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT account, amount, description, date_applied
		FROM holds WHERE account = ? ORDER BY description, amount`, account)
	if err != nil {
		return nil, fmt.Errorf("querying holds for %s: %w", account, err)
	}
	defer rows.Close()

	var out []model.Hold
	for rows.Next() {
		var h model.Hold
		var applied string
		if err := rows.Scan(&h.Account, &h.Amount, &h.Description, &applied); err != nil {
			return nil, fmt.Errorf("scanning hold: %w", err)
		}
		if h.DateApplied, err = decodeDate(applied); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// InsertHold creates a hold row keyed by (account, amount, description).
func (q queries) InsertHold(ctx context.Context, h model.Hold) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO holds (account, amount, description, date_applied)
		VALUES (?, ?, ?, ?)`,
		h.Account, h.Amount, h.Description, encodeDate(h.DateApplied))
	if err != nil {
		return fmt.Errorf("inserting hold %q on %s: %w", h.Description, h.Account, err)
	}
	return nil
}

// SetHoldApplied backfills a hold's dateApplied once the bank reports it.
func (q queries) SetHoldApplied(ctx context.Context, account string, key model.HoldKey, applied time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE holds SET date_applied = ?
		WHERE account = ? AND amount = ? AND description = ?`,
		encodeDate(applied), account, key.Amount, key.Description)
	if err != nil {
		return fmt.Errorf("updating hold %q on %s: %w", key.Description, account, err)
	}
	return nil
}

// DeleteHold removes a released or canceled hold.
func (q queries) DeleteHold(ctx context.Context, account string, key model.HoldKey) error {
	_, err := q.db.ExecContext(ctx, `
		DELETE FROM holds WHERE account = ? AND amount = ? AND description = ?`,
		account, key.Amount, key.Description)
	if err != nil {
		return fmt.Errorf("deleting hold %q on %s: %w", key.Description, account, err)
	}
	return nil
}
