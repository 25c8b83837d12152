// Package sqlite is the embedded storage backend. Amounts are kept as exact
// decimal TEXT and timestamps as fixed-width UTC TEXT so that string order is
// time order.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id          TEXT PRIMARY KEY,
			account_number      TEXT NOT NULL UNIQUE,
			account_name        TEXT NOT NULL,
			account_description TEXT NOT NULL DEFAULT '',
			account_category    TEXT NOT NULL,
			account_subcategory TEXT NOT NULL DEFAULT '',
			normal_side         TEXT NOT NULL CHECK (normal_side IN ('Left', 'Right')),
			initial_balance     TEXT NOT NULL,
			debit               TEXT NOT NULL,
			credit              TEXT NOT NULL,
			balance             TEXT NOT NULL,
			is_active           INTEGER NOT NULL DEFAULT 1,
			owner_id            TEXT NOT NULL,
			sort_order          INTEGER NOT NULL DEFAULT 0,
			statement           TEXT NOT NULL DEFAULT '',
			comment             TEXT NOT NULL DEFAULT '',
			created_at          TEXT NOT NULL,
			created_by          TEXT NOT NULL,
			last_updated_at     TEXT NOT NULL,
			last_updated_by     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_order ON accounts(sort_order, account_number)`,

		`CREATE TABLE IF NOT EXISTS journal_groups (
			group_id       TEXT PRIMARY KEY,
			created_at     TEXT NOT NULL,
			created_by     TEXT NOT NULL,
			review_comment TEXT NOT NULL DEFAULT '',
			reviewed_by    TEXT NOT NULL DEFAULT '',
			reviewed_at    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_groups_created ON journal_groups(created_at, group_id)`,

		`CREATE TABLE IF NOT EXISTS journal_legs (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			leg_id         TEXT NOT NULL UNIQUE,
			group_id       TEXT NOT NULL REFERENCES journal_groups(group_id),
			account_id     TEXT NOT NULL REFERENCES accounts(account_id),
			debit          TEXT NOT NULL,
			credit         TEXT NOT NULL,
			entry_date     TEXT NOT NULL,
			comment        TEXT NOT NULL DEFAULT '',
			attachment_ref TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL CHECK (status IN ('Pending', 'Approved', 'Rejected')),
			created_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_legs_group ON journal_legs(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_legs_account ON journal_legs(account_id, entry_date, seq)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id        TEXT NOT NULL UNIQUE,
			actor_id        TEXT NOT NULL,
			action          TEXT NOT NULL CHECK (action IN ('added', 'modified', 'activated', 'deactivated')),
			occurred_at     TEXT NOT NULL,
			before_snapshot TEXT,
			after_snapshot  TEXT,
			account_id      TEXT NOT NULL REFERENCES accounts(account_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_account ON audit_log(account_id, occurred_at, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_time ON audit_log(occurred_at, seq)`,

		// The audit log is append-only.
		`CREATE TRIGGER IF NOT EXISTS audit_log_no_update BEFORE UPDATE ON audit_log
		BEGIN
			SELECT RAISE(ABORT, 'audit_log is append-only');
		END`,
		`CREATE TRIGGER IF NOT EXISTS audit_log_no_delete BEFORE DELETE ON audit_log
		BEGIN
			SELECT RAISE(ABORT, 'audit_log is append-only');
		END`,
	}
}

// Migrate applies the schema to db. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration %d failed: %w", i, err)
		}
	}
	return nil
}
