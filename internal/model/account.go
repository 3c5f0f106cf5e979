package model

import "time"

// Account represents one bank account as reported by the bank feed.
// Balance fields are overwritten wholesale on each import; no history
// is kept.
type Account struct {
	ID               string    `json:"id"` // bank-assigned, primary key
	Type             string    `json:"type"`
	LedgerBalance    int64     `json:"ledgerBalance"` // cents
	LedgerAsOf       time.Time `json:"ledgerAsOfDate"`
	AvailableBalance int64     `json:"availableBalance"` // cents
	AvailableAsOf    time.Time `json:"availableAsOfDate"`
	RegDCount        int       `json:"regDCount"`
	RegDMax          int       `json:"regDMax"`
}
