package service

import (
	"context"
	"strings"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
	"github.com/google/uuid"
)

const (
	minTransactionAmount = 100
	maxTransactionAmount = 100_000_000
)

type transactionRepository interface {
	TransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// CreateTransaction appends a ledger entry without touching any account.
	CreateTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Transaction, error)
	// ApplyTransaction persists the mutated account and the ledger entry
	// atomically: either both are written or neither is.
	ApplyTransaction(ctx context.Context, tran *domain.Transaction, account *domain.Account) (*domain.Transaction, error)
}

type TransactionService struct {
	users        userRepository
	accounts     accountRepository
	transactions transactionRepository
	locks        accountLocker
}

func NewTransactionService(
	users userRepository,
	accounts accountRepository,
	transactions transactionRepository,
	locks accountLocker,
) *TransactionService {
	return &TransactionService{
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		locks:        locks,
	}
}

// Use debits the account and appends a successful USE ledger entry. The
// per-account lease is taken before state is read, so concurrent operations
// on the same account observe a serialized balance.
func (s *TransactionService) Use(ctx context.Context, userID int64, accountNumber string, amount int64) (*domain.Transaction, error) {
	lock, err := s.locks.Acquire(ctx, accountLockKey(accountNumber))
	if err != nil {
		return nil, err
	}
	defer lock.Unlock(ctx)

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateUse(user, account, amount); err != nil {
		return nil, err
	}

	if err := account.UseBalance(amount); err != nil {
		return nil, err
	}

	tran := newTransaction(domain.TransactionKindUse, domain.TransactionOutcomeSuccess, account, amount)

	return s.transactions.ApplyTransaction(ctx, tran, account)
}

func validateUse(user *domain.User, account *domain.Account, amount int64) error {
	if account.UserID != user.ID {
		return domain.ErrUserAccountMismatch
	}

	if account.Status != domain.AccountStatusActive {
		return domain.ErrAccountAlreadyClosed
	}

	if amount < minTransactionAmount {
		return domain.ErrAmountTooSmall
	}

	if amount > maxTransactionAmount {
		return domain.ErrAmountTooLarge
	}

	if amount > account.Balance {
		logger.Log.Warn(
			"amount exceeds balance",
			logger.String("account_number", account.Number),
			logger.Int64("amount", amount),
			logger.Int64("balance", account.Balance),
		)
		return domain.ErrAmountExceedsBalance
	}

	return nil
}

// RecordFailedUse appends a FAILURE ledger entry for an attempt that did not
// go through, keeping the audit trail. The account is left untouched; the
// snapshot records the balance at attempt time.
func (s *TransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error) {
	return s.recordFailure(ctx, domain.TransactionKindUse, accountNumber, amount)
}

// Cancel credits back the amount of a previous USE transaction and appends a
// successful CANCEL ledger entry. Partial cancellation is not allowed and
// transactions older than a year cannot be cancelled.
func (s *TransactionService) Cancel(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error) {
	lock, err := s.locks.Acquire(ctx, accountLockKey(accountNumber))
	if err != nil {
		return nil, err
	}
	defer lock.Unlock(ctx)

	original, err := s.transactions.TransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateCancel(original, account, amount); err != nil {
		return nil, err
	}

	account.CancelBalance(amount)

	tran := newTransaction(domain.TransactionKindCancel, domain.TransactionOutcomeSuccess, account, amount)

	return s.transactions.ApplyTransaction(ctx, tran, account)
}

func validateCancel(original *domain.Transaction, account *domain.Account, amount int64) error {
	if original.AccountID != account.ID {
		return domain.ErrTransactionAccountMismatch
	}

	if original.Amount != amount {
		return domain.ErrCancelMustBeFull
	}

	if original.TransactedAt.Before(time.Now().AddDate(-1, 0, 0)) {
		return domain.ErrTooOldToCancel
	}

	return nil
}

// RecordFailedCancel is the CANCEL counterpart of RecordFailedUse.
func (s *TransactionService) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error) {
	return s.recordFailure(ctx, domain.TransactionKindCancel, accountNumber, amount)
}

// Query returns the stored ledger entry verbatim.
func (s *TransactionService) Query(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactions.TransactionByID(ctx, transactionID)
}

func (s *TransactionService) recordFailure(ctx context.Context, kind domain.TransactionKind, accountNumber string, amount int64) (*domain.Transaction, error) {
	account, err := s.accounts.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	tran := newTransaction(kind, domain.TransactionOutcomeFailure, account, amount)

	return s.transactions.CreateTransaction(ctx, tran)
}

// newTransaction snapshots the account balance as it stands when the entry is
// built: after the mutation on success paths, untouched on failure paths.
func newTransaction(kind domain.TransactionKind, outcome domain.TransactionOutcome, account *domain.Account, amount int64) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   newTransactionID(),
		Kind:            kind,
		Outcome:         outcome,
		AccountID:       account.ID,
		AccountNumber:   account.Number,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    time.Now(),
	}
}

func newTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
