package model

import "time"

// BalanceDay is one day of a projected balance series.
type BalanceDay struct {
	Date    time.Time
	Balance int64 // cents
}
