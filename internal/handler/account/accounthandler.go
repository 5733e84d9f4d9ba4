package accounthandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/dto"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type accountService interface {
	Create(ctx context.Context, userID int64, initialBalance int64) (*domain.Account, error)
	Close(ctx context.Context, userID int64, accountNumber string) (*domain.Account, error)
	List(ctx context.Context, userID int64) ([]domain.Account, error)
	ByID(ctx context.Context, id int64) (*domain.Account, error)
}

type AccountHandler struct {
	accountService accountService
}

func New(svc accountService) *AccountHandler {
	return &AccountHandler{
		accountService: svc,
	}
}

func (h AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a create account request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid create account request", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accountService.Create(r.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		} else if errors.Is(err, domain.ErrAccountLimitExceeded) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, domain.ErrAccountNumberAlreadyUsed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, domain.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusLocked)
			return
		}

		logger.Log.Error("error while creating account", logger.Int64("user_id", req.UserID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeAccount(w, http.StatusCreated, account)
}

func (h AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req dto.CloseAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a close account request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid close account request", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accountService.Close(r.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		} else if errors.Is(err, domain.ErrUserAccountMismatch) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		} else if errors.Is(err, domain.ErrAccountAlreadyClosed) || errors.Is(err, domain.ErrBalanceNotEmpty) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		} else if errors.Is(err, domain.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusLocked)
			return
		}

		logger.Log.Error("error while closing account", logger.String("account_number", req.AccountNumber), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeAccount(w, http.StatusOK, account)
}

func (h AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userIDParam := r.URL.Query().Get("user_id")
	userID, err := strconv.ParseInt(userIDParam, 10, 64)
	if err != nil {
		logger.Log.Warn("invalid user ID", logger.String("user_id", userIDParam), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	accounts, err := h.accountService.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		logger.Log.Error("error while listing accounts", logger.Int64("user_id", userID), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	dtos := make([]dto.Account, len(accounts))
	for i, account := range accounts {
		dtos[i] = toDTO(&account)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		logger.Log.Error("error while encoding accounts to JSON", logger.Int64("user_id", userID), logger.Error(err))
	}
}

func (h AccountHandler) ByID(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		logger.Log.Warn("invalid account ID", logger.String("id", idParam), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	account, err := h.accountService.ByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		logger.Log.Error("error while fetching account", logger.Int64("id", id), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeAccount(w, http.StatusOK, account)
}

func writeAccount(w http.ResponseWriter, status int, account *domain.Account) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(toDTO(account)); err != nil {
		logger.Log.Error("error while encoding account to JSON", logger.String("account_number", account.Number), logger.Error(err))
	}
}

func toDTO(account *domain.Account) dto.Account {
	resp := dto.Account{
		UserID:        account.UserID,
		AccountNumber: account.Number,
		Status:        string(account.Status),
		Balance:       account.Balance,
		RegisteredAt:  account.RegisteredAt.Format(time.RFC3339),
	}

	if account.UnregisteredAt != nil {
		unregisteredAt := account.UnregisteredAt.Format(time.RFC3339)
		resp.UnregisteredAt = &unregisteredAt
	}

	return resp
}
