package accounthandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/dto"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountService struct {
	create func(ctx context.Context, userID int64, initialBalance int64) (*domain.Account, error)
	close  func(ctx context.Context, userID int64, accountNumber string) (*domain.Account, error)
	list   func(ctx context.Context, userID int64) ([]domain.Account, error)
	byID   func(ctx context.Context, id int64) (*domain.Account, error)
}

func (f *fakeAccountService) Create(ctx context.Context, userID int64, initialBalance int64) (*domain.Account, error) {
	return f.create(ctx, userID, initialBalance)
}

func (f *fakeAccountService) Close(ctx context.Context, userID int64, accountNumber string) (*domain.Account, error) {
	return f.close(ctx, userID, accountNumber)
}

func (f *fakeAccountService) List(ctx context.Context, userID int64) ([]domain.Account, error) {
	return f.list(ctx, userID)
}

func (f *fakeAccountService) ByID(ctx context.Context, id int64) (*domain.Account, error) {
	return f.byID(ctx, id)
}

func newRouter(svc *fakeAccountService) *chi.Mux {
	h := New(svc)

	r := chi.NewRouter()
	r.Post("/api/accounts", h.Create)
	r.Delete("/api/accounts", h.Close)
	r.Get("/api/accounts", h.List)
	r.Get("/api/accounts/{id}", h.ByID)

	return r
}

func TestCreateAccount(t *testing.T) {
	svc := &fakeAccountService{
		create: func(_ context.Context, userID int64, initialBalance int64) (*domain.Account, error) {
			return &domain.Account{
				ID:           1,
				UserID:       userID,
				Number:       "1234567890",
				Status:       domain.AccountStatusActive,
				Balance:      initialBalance,
				RegisteredAt: time.Now(),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"user_id":1,"initial_balance":1000}`))
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Account
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "1234567890", resp.AccountNumber)
	assert.Equal(t, int64(1000), resp.Balance)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Nil(t, resp.UnregisteredAt)
}

func TestCreateAccountErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "user not found", err: domain.ErrUserNotFound, want: http.StatusNotFound},
		{name: "account limit", err: domain.ErrAccountLimitExceeded, want: http.StatusConflict},
		{name: "number collision", err: domain.ErrAccountNumberAlreadyUsed, want: http.StatusConflict},
		{name: "locked", err: domain.ErrAccountLocked, want: http.StatusLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{
				create: func(_ context.Context, _ int64, _ int64) (*domain.Account, error) {
					return nil, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"user_id":1,"initial_balance":0}`))
			w := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCreateAccountInvalidRequest(t *testing.T) {
	svc := &fakeAccountService{}

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"initial_balance":-5}`))
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCloseAccount(t *testing.T) {
	closedAt := time.Now()
	svc := &fakeAccountService{
		close: func(_ context.Context, userID int64, accountNumber string) (*domain.Account, error) {
			return &domain.Account{
				ID:             1,
				UserID:         userID,
				Number:         accountNumber,
				Status:         domain.AccountStatusClosed,
				UnregisteredAt: &closedAt,
				RegisteredAt:   closedAt.Add(-time.Hour),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts", strings.NewReader(`{"user_id":1,"account_number":"1234567890"}`))
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Account
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "CLOSED", resp.Status)
	require.NotNil(t, resp.UnregisteredAt)
}

func TestCloseAccountErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "account not found", err: domain.ErrAccountNotFound, want: http.StatusNotFound},
		{name: "mismatch", err: domain.ErrUserAccountMismatch, want: http.StatusForbidden},
		{name: "already closed", err: domain.ErrAccountAlreadyClosed, want: http.StatusConflict},
		{name: "balance not empty", err: domain.ErrBalanceNotEmpty, want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{
				close: func(_ context.Context, _ int64, _ string) (*domain.Account, error) {
					return nil, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/accounts", strings.NewReader(`{"user_id":1,"account_number":"1234567890"}`))
			w := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestListAccounts(t *testing.T) {
	svc := &fakeAccountService{
		list: func(_ context.Context, userID int64) ([]domain.Account, error) {
			return []domain.Account{
				{ID: 1, UserID: userID, Number: "1234567890", Status: domain.AccountStatusActive, Balance: 1000, RegisteredAt: time.Now()},
				{ID: 2, UserID: userID, Number: "1234567891", Status: domain.AccountStatusActive, Balance: 0, RegisteredAt: time.Now()},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts?user_id=1", nil)
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []dto.Account
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "1234567890", resp[0].AccountNumber)
}

func TestAccountByID(t *testing.T) {
	svc := &fakeAccountService{
		byID: func(_ context.Context, id int64) (*domain.Account, error) {
			if id != 7 {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: 7, UserID: 1, Number: "1234567890", Status: domain.AccountStatusActive, RegisteredAt: time.Now()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/7", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/accounts/8", nil)
	w = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
