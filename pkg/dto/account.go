package dto

import "errors"

type CreateAccountRequest struct {
	UserID         int64 `json:"user_id"`
	InitialBalance int64 `json:"initial_balance"`
}

func (r CreateAccountRequest) IsValid() error {
	if r.UserID <= 0 {
		return errors.New("user_id is required")
	}

	if r.InitialBalance < 0 {
		return errors.New("initial_balance must not be negative")
	}

	return nil
}

type CloseAccountRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
}

func (r CloseAccountRequest) IsValid() error {
	if r.UserID <= 0 {
		return errors.New("user_id is required")
	}

	if r.AccountNumber == "" {
		return errors.New("account_number is required")
	}

	return nil
}

type Account struct {
	UserID         int64   `json:"user_id"`
	AccountNumber  string  `json:"account_number"`
	Status         string  `json:"status"`
	Balance        int64   `json:"balance"`
	RegisteredAt   string  `json:"registered_at"`
	UnregisteredAt *string `json:"unregistered_at,omitempty"`
}
