package domain

import "errors"

var (
	ErrUserNotFound               = errors.New("user not found")
	ErrAccountNotFound            = errors.New("account not found")
	ErrAccountLimitExceeded       = errors.New("maximum number of accounts per user exceeded")
	ErrAccountNumberAlreadyUsed   = errors.New("account number already in use")
	ErrUserAccountMismatch        = errors.New("account is not owned by the user")
	ErrAccountAlreadyClosed       = errors.New("account is already closed")
	ErrBalanceNotEmpty            = errors.New("account balance is not empty")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionAccountMismatch = errors.New("transaction does not belong to the account")
	ErrCancelMustBeFull           = errors.New("partial cancellation is not allowed")
	ErrTooOldToCancel             = errors.New("transactions older than a year cannot be cancelled")
	ErrAmountTooSmall             = errors.New("amount is too small")
	ErrAmountTooLarge             = errors.New("amount is too large")
	ErrAmountExceedsBalance       = errors.New("amount exceeds balance")
	ErrAccountLocked              = errors.New("account is in use by another operation")
)
