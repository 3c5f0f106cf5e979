package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
)

// AppendHealthEvent adds one row to the append-only health log.
func (q queries) AppendHealthEvent(ctx context.Context, ev model.HealthEvent) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO health_events (timestamp, cycle_id, feed, severity, description)
		VALUES (?, ?, ?, ?, ?)`,
		ev.Timestamp.UTC().Format(time.RFC3339), ev.CycleID, ev.Feed,
		string(ev.Severity), ev.Description)
	if err != nil {
		return fmt.Errorf("appending health event: %w", err)
	}
	return nil
}

// HealthEvents returns the most recent limit events, newest first.
func (q queries) HealthEvents(ctx context.Context, limit int) ([]model.HealthEvent, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, timestamp, cycle_id, feed, severity, description
		FROM health_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying health events: %w", err)
	}
	defer rows.Close()

	var out []model.HealthEvent
	for rows.Next() {
		var ev model.HealthEvent
		var ts, sev string
		if err := rows.Scan(&ev.ID, &ts, &ev.CycleID, &ev.Feed, &sev, &ev.Description); err != nil {
			return nil, fmt.Errorf("scanning health event: %w", err)
		}
		if ev.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("parsing health event timestamp %q: %w", ts, err)
		}
		ev.Severity = model.Severity(sev)
		out = append(out, ev)
	}
	return out, rows.Err()
}
