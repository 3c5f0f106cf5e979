package model

// Statement is the normalized shape a bank feed produces for one
// synchronization: every account with its transactions and holds.
// Decoding the bank's proprietary wire format happens upstream.
type Statement struct {
	Accounts []AccountStatement `json:"accounts"`
}

// AccountStatement is one account's slice of a statement.
type AccountStatement struct {
	Account      Account           `json:"account"`
	Transactions []BankTransaction `json:"transactions"`
	Holds        []Hold            `json:"holds"`
}
