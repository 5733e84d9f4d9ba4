package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type Postgres struct {
	DB *sql.DB
}

func New(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func (p *Postgres) User(ctx context.Context, userID int64) (*domain.User, error) {
	row := p.DB.QueryRowContext(ctx, "SELECT id, name, registered_at FROM users WHERE id = $1", userID)

	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return &user, nil
}

func (p *Postgres) AccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := p.DB.QueryRowContext(
		ctx,
		"SELECT id, user_id, number, status, balance, registered_at, unregistered_at FROM accounts WHERE id = $1",
		id,
	)

	return scanAccount(row)
}

func (p *Postgres) AccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := p.DB.QueryRowContext(
		ctx,
		"SELECT id, user_id, number, status, balance, registered_at, unregistered_at FROM accounts WHERE number = $1",
		number,
	)

	return scanAccount(row)
}

func (p *Postgres) LastAccountByUser(ctx context.Context, userID int64) (*domain.Account, error) {
	row := p.DB.QueryRowContext(
		ctx,
		"SELECT id, user_id, number, status, balance, registered_at, unregistered_at FROM accounts WHERE user_id = $1 ORDER BY id DESC LIMIT 1",
		userID,
	)

	return scanAccount(row)
}

func (p *Postgres) AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := p.DB.QueryContext(
		ctx,
		"SELECT id, user_id, number, status, balance, registered_at, unregistered_at FROM accounts WHERE user_id = $1",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("error fetching accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("error closing rows", logger.Error(err))
		}
	}(rows)

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Number,
			&account.Status,
			&account.Balance,
			&account.RegisteredAt,
			&account.UnregisteredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

func (p *Postgres) CountAccountsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := p.DB.QueryRowContext(ctx, "SELECT count(*) FROM accounts WHERE user_id = $1", userID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}

	return count, nil
}

func (p *Postgres) SaveAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account.ID == 0 {
		err := p.DB.QueryRowContext(
			ctx,
			"INSERT INTO accounts (user_id, number, status, balance, registered_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			account.UserID, account.Number, account.Status, account.Balance, account.RegisteredAt,
		).Scan(&account.ID)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				logger.Log.Warn("account number already in use", logger.String("number", account.Number))
				return nil, domain.ErrAccountNumberAlreadyUsed
			}
			return nil, fmt.Errorf("error creating account: %w", err)
		}

		return account, nil
	}

	_, err := p.DB.ExecContext(
		ctx,
		"UPDATE accounts SET status = $1, balance = $2, unregistered_at = $3 WHERE id = $4",
		account.Status, account.Balance, account.UnregisteredAt, account.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}

	return account, nil
}

func (p *Postgres) TransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := p.DB.QueryRowContext(
		ctx,
		"SELECT id, transaction_id, kind, outcome, account_id, account_number, amount, balance_snapshot, transacted_at FROM transactions WHERE transaction_id = $1",
		transactionID,
	)

	var tran domain.Transaction
	err := row.Scan(
		&tran.ID,
		&tran.TransactionID,
		&tran.Kind,
		&tran.Outcome,
		&tran.AccountID,
		&tran.AccountNumber,
		&tran.Amount,
		&tran.BalanceSnapshot,
		&tran.TransactedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("error fetching transaction: %w", err)
	}

	return &tran, nil
}

func (p *Postgres) CreateTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	err := p.DB.QueryRowContext(
		ctx,
		`INSERT INTO transactions (transaction_id, kind, outcome, account_id, account_number, amount, balance_snapshot, transacted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		tran.TransactionID, tran.Kind, tran.Outcome, tran.AccountID, tran.AccountNumber, tran.Amount, tran.BalanceSnapshot, tran.TransactedAt,
	).Scan(&tran.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	return tran, nil
}

// ApplyTransaction writes the new account balance and the ledger entry in one
// database transaction, so a single attempt either fully applies or leaves no
// trace.
func (p *Postgres) ApplyTransaction(ctx context.Context, tran *domain.Transaction, account *domain.Account) (*domain.Transaction, error) {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE accounts SET balance = $1 WHERE id = $2", account.Balance, account.ID)
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error updating account balance: %w", err)
	}

	err = tx.QueryRowContext(
		ctx,
		`INSERT INTO transactions (transaction_id, kind, outcome, account_id, account_number, amount, balance_snapshot, transacted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		tran.TransactionID, tran.Kind, tran.Outcome, tran.AccountID, tran.AccountNumber, tran.Amount, tran.BalanceSnapshot, tran.TransactedAt,
	).Scan(&tran.ID)
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		rollback(tx)
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return tran, nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Number,
		&account.Status,
		&account.Balance,
		&account.RegisteredAt,
		&account.UnregisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error fetching account: %w", err)
	}

	return &account, nil
}

func rollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil {
		logger.Log.Error("error rolling back transaction", logger.Error(err))
	}
}
