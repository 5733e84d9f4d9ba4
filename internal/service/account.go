package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/internal/redislock"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
)

const (
	maxAccountsPerUser  = 10
	accountNumberLength = 10
)

type userRepository interface {
	User(ctx context.Context, userID int64) (*domain.User, error)
}

type accountRepository interface {
	AccountByID(ctx context.Context, id int64) (*domain.Account, error)
	AccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	AccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	CountAccountsByUser(ctx context.Context, userID int64) (int, error)
	LastAccountByUser(ctx context.Context, userID int64) (*domain.Account, error)
	SaveAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

type accountLocker interface {
	Acquire(ctx context.Context, key string) (redislock.Handle, error)
}

type AccountService struct {
	users    userRepository
	accounts accountRepository
	locks    accountLocker
}

func NewAccountService(users userRepository, accounts accountRepository, locks accountLocker) *AccountService {
	return &AccountService{
		users:    users,
		accounts: accounts,
		locks:    locks,
	}
}

// Create registers a new ACTIVE account for the user. Creation is serialized
// per user so two concurrent requests cannot both pass the account count
// check or collide on an allocated number.
func (s *AccountService) Create(ctx context.Context, userID int64, initialBalance int64) (*domain.Account, error) {
	lock, err := s.locks.Acquire(ctx, createLockKey(userID))
	if err != nil {
		return nil, err
	}
	defer lock.Unlock(ctx)

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.accounts.CountAccountsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}

	if count >= maxAccountsPerUser {
		logger.Log.Warn("account limit reached", logger.Int64("user_id", user.ID), logger.Int("count", count))
		return nil, domain.ErrAccountLimitExceeded
	}

	number, err := s.newAccountNumber(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Fast-path check only; the unique constraint on the account number is
	// the authoritative guard and maps to the same error on violation.
	_, err = s.accounts.AccountByNumber(ctx, number)
	if err == nil {
		logger.Log.Warn("generated account number already in use", logger.String("number", number))
		return nil, domain.ErrAccountNumberAlreadyUsed
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account := &domain.Account{
		UserID:       user.ID,
		Number:       number,
		Status:       domain.AccountStatusActive,
		Balance:      initialBalance,
		RegisteredAt: time.Now(),
	}

	return s.accounts.SaveAccount(ctx, account)
}

// Close deregisters an account. The checks short-circuit in a fixed order:
// existence, ownership, already-closed, non-zero balance.
func (s *AccountService) Close(ctx context.Context, userID int64, accountNumber string) (*domain.Account, error) {
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

	if account.UserID != user.ID {
		return nil, domain.ErrUserAccountMismatch
	}

	if account.Status == domain.AccountStatusClosed {
		return nil, domain.ErrAccountAlreadyClosed
	}

	if account.Balance > 0 {
		return nil, domain.ErrBalanceNotEmpty
	}

	now := time.Now()
	account.Status = domain.AccountStatusClosed
	account.UnregisteredAt = &now

	return s.accounts.SaveAccount(ctx, account)
}

// List returns all accounts owned by the user, regardless of status.
func (s *AccountService) List(ctx context.Context, userID int64) ([]domain.Account, error) {
	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.accounts.AccountsByUser(ctx, user.ID)
}

func (s *AccountService) ByID(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.AccountByID(ctx, id)
}

// newAccountNumber continues the user's number sequence when a prior account
// exists, otherwise draws a fresh random 10-digit number.
func (s *AccountService) newAccountNumber(ctx context.Context, userID int64) (string, error) {
	last, err := s.accounts.LastAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return randomAccountNumber(), nil
		}
		return "", fmt.Errorf("error fetching last account: %w", err)
	}

	n, err := strconv.ParseInt(last.Number, 10, 64)
	if err != nil {
		return "", fmt.Errorf("error parsing account number %q: %w", last.Number, err)
	}

	return fmt.Sprintf("%0*d", accountNumberLength, n+1), nil
}

// randomAccountNumber draws a 10-digit number with a non-zero first digit.
func randomAccountNumber() string {
	var sb strings.Builder
	sb.WriteByte(byte('1' + rand.IntN(9)))

	for i := 1; i < accountNumberLength; i++ {
		sb.WriteByte(byte('0' + rand.IntN(10)))
	}

	return sb.String()
}

func accountLockKey(accountNumber string) string {
	return "lock:account:" + accountNumber
}

func createLockKey(userID int64) string {
	return "lock:user-accounts:" + strconv.FormatInt(userID, 10)
}
