package dto

import "errors"

type UseBalanceRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

func (r UseBalanceRequest) IsValid() error {
	if r.UserID <= 0 {
		return errors.New("user_id is required")
	}

	if r.AccountNumber == "" {
		return errors.New("account_number is required")
	}

	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}

	return nil
}

type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

func (r CancelBalanceRequest) IsValid() error {
	if r.TransactionID == "" {
		return errors.New("transaction_id is required")
	}

	if r.AccountNumber == "" {
		return errors.New("account_number is required")
	}

	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}

	return nil
}

type Transaction struct {
	TransactionID   string `json:"transaction_id"`
	Kind            string `json:"kind"`
	Outcome         string `json:"outcome"`
	AccountNumber   string `json:"account_number"`
	Amount          int64  `json:"amount"`
	BalanceSnapshot int64  `json:"balance_snapshot"`
	TransactedAt    string `json:"transacted_at"`
}
