package transactionhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/dto"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type transactionService interface {
	Use(ctx context.Context, userID int64, accountNumber string, amount int64) (*domain.Transaction, error)
	Cancel(ctx context.Context, transactionID, accountNumber string, amount int64) (*domain.Transaction, error)
	RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error)
	RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error)
	Query(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

type TransactionHandler struct {
	transactionService transactionService
}

func New(svc transactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: svc,
	}
}

func (h TransactionHandler) Use(w http.ResponseWriter, r *http.Request) {
	var req dto.UseBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a use balance request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid use balance request", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tran, err := h.transactionService.Use(r.Context(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordUseFailure(r.Context(), req.AccountNumber, req.Amount, err)

		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		} else if errors.Is(err, domain.ErrUserAccountMismatch) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		} else if errors.Is(err, domain.ErrAccountAlreadyClosed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, domain.ErrAmountTooSmall) || errors.Is(err, domain.ErrAmountTooLarge) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		} else if errors.Is(err, domain.ErrAmountExceedsBalance) {
			http.Error(w, err.Error(), http.StatusPaymentRequired)
			return
		} else if errors.Is(err, domain.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusLocked)
			return
		}

		logger.Log.Error("error while using balance", logger.String("account_number", req.AccountNumber), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeTransaction(w, http.StatusOK, tran)
}

func (h TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a cancel balance request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid cancel balance request", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tran, err := h.transactionService.Cancel(r.Context(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		h.recordCancelFailure(r.Context(), req.AccountNumber, req.Amount, err)

		if errors.Is(err, domain.ErrTransactionNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		} else if errors.Is(err, domain.ErrTransactionAccountMismatch) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, domain.ErrCancelMustBeFull) || errors.Is(err, domain.ErrTooOldToCancel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		} else if errors.Is(err, domain.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusLocked)
			return
		}

		logger.Log.Error("error while cancelling balance", logger.String("account_number", req.AccountNumber), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeTransaction(w, http.StatusOK, tran)
}

func (h TransactionHandler) Query(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	tran, err := h.transactionService.Query(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		logger.Log.Error("error while querying transaction", logger.String("transaction_id", transactionID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeTransaction(w, http.StatusOK, tran)
}

// recordUseFailure keeps the audit trail of rejected attempts. Failures are
// not recorded when the account itself is unknown, or when the lock could not
// be taken: a retriable lock timeout is not a business failure and writing a
// record would race the operation that holds the lease.
func (h TransactionHandler) recordUseFailure(ctx context.Context, accountNumber string, amount int64, cause error) {
	if !shouldRecordFailure(cause) {
		return
	}

	if _, err := h.transactionService.RecordFailedUse(ctx, accountNumber, amount); err != nil {
		logger.Log.Error("error while recording failed use", logger.String("account_number", accountNumber), logger.Error(err))
	}
}

func (h TransactionHandler) recordCancelFailure(ctx context.Context, accountNumber string, amount int64, cause error) {
	if !shouldRecordFailure(cause) {
		return
	}

	if _, err := h.transactionService.RecordFailedCancel(ctx, accountNumber, amount); err != nil {
		logger.Log.Error("error while recording failed cancel", logger.String("account_number", accountNumber), logger.Error(err))
	}
}

func shouldRecordFailure(err error) bool {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrUserAccountMismatch),
		errors.Is(err, domain.ErrAccountAlreadyClosed),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountExceedsBalance),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrTransactionAccountMismatch),
		errors.Is(err, domain.ErrCancelMustBeFull),
		errors.Is(err, domain.ErrTooOldToCancel):
		return true
	}

	return false
}

func writeTransaction(w http.ResponseWriter, status int, tran *domain.Transaction) {
	resp := dto.Transaction{
		TransactionID:   tran.TransactionID,
		Kind:            string(tran.Kind),
		Outcome:         string(tran.Outcome),
		AccountNumber:   tran.AccountNumber,
		Amount:          tran.Amount,
		BalanceSnapshot: tran.BalanceSnapshot,
		TransactedAt:    tran.TransactedAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Error("error while encoding transaction to JSON", logger.String("transaction_id", tran.TransactionID), logger.Error(err))
	}
}
