// Package store is the durable ledger store: accounts, bank
// transactions, holds, scheduled transactions, and the append-only
// health-event log. Persistence only; business rules live in the
// importer, matcher, aging, and forecast packages.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a keyed lookup matches no row.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                TEXT PRIMARY KEY,
	type              TEXT NOT NULL,
	ledger_balance    INTEGER NOT NULL,
	ledger_as_of      TEXT NOT NULL DEFAULT '',
	available_balance INTEGER NOT NULL,
	available_as_of   TEXT NOT NULL DEFAULT '',
	regd_count        INTEGER NOT NULL DEFAULT 0,
	regd_max          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bank_txns (
	id             TEXT PRIMARY KEY,
	account        TEXT NOT NULL,
	type           TEXT NOT NULL,
	amount         INTEGER NOT NULL,
	user_date      TEXT NOT NULL DEFAULT '',
	ledger_date    TEXT NOT NULL,
	memo           TEXT NOT NULL,
	check_number   INTEGER NOT NULL DEFAULT 0,
	ledger_balance INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bank_txns_date ON bank_txns(ledger_date);
CREATE INDEX IF NOT EXISTS idx_bank_txns_account ON bank_txns(account, ledger_date);

CREATE TABLE IF NOT EXISTS holds (
	account      TEXT NOT NULL,
	amount       INTEGER NOT NULL,
	description  TEXT NOT NULL,
	date_applied TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (account, amount, description)
);

CREATE TABLE IF NOT EXISTS scheduled_txns (
	ref            TEXT PRIMARY KEY,
	bank_txn_id    TEXT NOT NULL DEFAULT '',
	check_number   INTEGER NOT NULL DEFAULT 0,
	amount         INTEGER NOT NULL,
	title          TEXT NOT NULL,
	expected_date  TEXT NOT NULL,
	original_date  TEXT NOT NULL,
	source_account TEXT NOT NULL,
	dest_account   TEXT NOT NULL DEFAULT '',
	paid_date      TEXT NOT NULL DEFAULT '',
	late           INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_scheduled_expected ON scheduled_txns(expected_date);

CREATE TABLE IF NOT EXISTS health_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp   TEXT NOT NULL,
	cycle_id    TEXT NOT NULL,
	feed        TEXT NOT NULL,
	severity    TEXT NOT NULL,
	description TEXT NOT NULL
);
`

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements every entity operation against either a bare
// connection or an open transaction.
type queries struct {
	db dbtx
}

// Store is a ledger store backed by a SQLite file.
type Store struct {
	queries
	sqldb *sql.DB
}

// Tx exposes the same entity operations inside one transaction.
type Tx struct {
	queries
}

// Open opens (or creates) the store at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// The engine is single-writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{queries: queries{db: db}, sqldb: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.sqldb.Close()
}

// InTx runs fn inside a single transaction, committing when fn returns
// nil and rolling back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&Tx{queries: queries{db: tx}}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const dateFormat = "2006-01-02"

// encodeDate stores the zero time as the empty string.
func encodeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func decodeDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
	}
	return t, nil
}
