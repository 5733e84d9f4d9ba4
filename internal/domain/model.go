package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

type TransactionKind string

const (
	TransactionKindUse    TransactionKind = "USE"
	TransactionKindCancel TransactionKind = "CANCEL"
)

type TransactionOutcome string

const (
	TransactionOutcomeSuccess TransactionOutcome = "SUCCESS"
	TransactionOutcomeFailure TransactionOutcome = "FAILURE"
)

// User is a reference lookup only; its lifecycle is owned outside this service.
type User struct {
	ID           int64
	Name         string
	RegisteredAt time.Time
}

type Account struct {
	ID             int64
	UserID         int64
	Number         string
	Status         AccountStatus
	Balance        int64
	RegisteredAt   time.Time
	UnregisteredAt *time.Time
}

// UseBalance debits the account; the balance never goes below zero.
func (a *Account) UseBalance(amount int64) error {
	if amount > a.Balance {
		return ErrAmountExceedsBalance
	}

	a.Balance -= amount

	return nil
}

// CancelBalance credits back a previously used amount.
func (a *Account) CancelBalance(amount int64) {
	a.Balance += amount
}

// Transaction is an immutable ledger entry; one row is written per attempted
// balance operation, successful or not.
type Transaction struct {
	ID              int64
	TransactionID   string
	Kind            TransactionKind
	Outcome         TransactionOutcome
	AccountID       int64
	AccountNumber   string
	Amount          int64
	BalanceSnapshot int64
	TransactedAt    time.Time
}
