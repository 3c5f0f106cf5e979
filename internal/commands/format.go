package commands

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebb-dev/ebb/internal/model"
	"github.com/ebb-dev/ebb/internal/store"
)

// formatCents renders integer cents as a dollar amount.
func formatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// lateItems returns the unresolved scheduled transactions flagged late,
// oldest first.
func lateItems(ctx context.Context, st *store.Store) ([]model.ScheduledTransaction, error) {
	unresolved, err := st.UnresolvedScheduled(ctx)
	if err != nil {
		return nil, err
	}
	var late []model.ScheduledTransaction
	for _, s := range unresolved {
		if s.Late {
			late = append(late, s)
		}
	}
	return late, nil
}
