package model

import "time"

// BankTransaction is one cleared ledger movement reported by the bank.
// Rows are immutable once created except for LedgerDate and
// LedgerBalance, which the bank may retroactively revise. Rows are
// never deleted.
type BankTransaction struct {
	ID            string    `json:"id"` // bank-assigned, globally unique
	Account       string    `json:"account"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"` // signed cents
	UserDate      time.Time `json:"userDate"`
	LedgerDate    time.Time `json:"ledgerDate"`
	Memo          string    `json:"memo"`
	CheckNumber   int       `json:"checkNumber"` // 0 = none
	LedgerBalance int64     `json:"ledgerBalance"`
}

// Hold is a pending authorization. The bank assigns no stable id, so
// identity is the (account, amount, description) tuple. Holds are
// ephemeral: they vanish from the store when they vanish from the feed.
type Hold struct {
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"` // cents
	Description string    `json:"description"`
	DateApplied time.Time `json:"dateApplied"` // zero until reported
}

// HoldKey identifies a hold within one account.
type HoldKey struct {
	Amount      int64
	Description string
}

// Key returns the hold's identity within its account.
func (h Hold) Key() HoldKey {
	return HoldKey{Amount: h.Amount, Description: h.Description}
}
