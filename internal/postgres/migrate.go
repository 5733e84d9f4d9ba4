package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id              BIGSERIAL PRIMARY KEY,
		user_id         BIGINT NOT NULL REFERENCES users (id),
		number          CHAR(10) NOT NULL UNIQUE,
		status          TEXT NOT NULL,
		balance         BIGINT NOT NULL CHECK (balance >= 0),
		registered_at   TIMESTAMPTZ NOT NULL,
		unregistered_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id               BIGSERIAL PRIMARY KEY,
		transaction_id   TEXT NOT NULL UNIQUE,
		kind             TEXT NOT NULL,
		outcome          TEXT NOT NULL,
		account_id       BIGINT NOT NULL REFERENCES accounts (id),
		account_number   CHAR(10) NOT NULL,
		amount           BIGINT NOT NULL,
		balance_snapshot BIGINT NOT NULL,
		transacted_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_account_id_idx ON transactions (account_id)`,
}

// Bootstrap applies the idempotent schema statements at startup.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	for _, migration := range migrations {
		if _, err := p.DB.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("error applying migration: %w", err)
		}
	}

	return nil
}
