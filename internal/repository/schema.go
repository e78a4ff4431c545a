package repository

import (
	"context"
	"fmt"

	"github.com/mockbank/bank/internal/db"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		branch_id  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id              TEXT PRIMARY KEY,
		owner_id        TEXT NOT NULL REFERENCES owners(id),
		type            TEXT NOT NULL,
		balance         NUMERIC(20,4) NOT NULL DEFAULT 0,
		overdraft_limit NUMERIC(20,4) NOT NULL DEFAULT 0,
		min_balance     NUMERIC(20,4) NOT NULL DEFAULT 0,
		monthly_fee     NUMERIC(20,4) NOT NULL DEFAULT 0,
		minimum_balance NUMERIC(20,4) NOT NULL DEFAULT 0,
		interest_rate   NUMERIC(12,8) NOT NULL DEFAULT 0,
		credit_limit    NUMERIC(20,4) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id                  TEXT PRIMARY KEY,
		seq                 BIGSERIAL,
		source_owner_id     TEXT NOT NULL,
		source_account_id   TEXT NOT NULL,
		receiver_owner_id   TEXT NOT NULL DEFAULT '',
		receiver_account_id TEXT NOT NULL DEFAULT '',
		amount              NUMERIC(20,4) NOT NULL,
		type                TEXT NOT NULL,
		status              TEXT NOT NULL,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_source_account
		ON transactions (source_account_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_receiver_account
		ON transactions (receiver_account_id, seq)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key             TEXT NOT NULL,
		request_path    TEXT NOT NULL,
		response_status INT NOT NULL,
		response_body   TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (key, request_path)
	)`,
}

// EnsureSchema creates the ledger tables if they do not exist.
func EnsureSchema(ctx context.Context, database *db.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
