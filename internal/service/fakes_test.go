package service

import (
	"context"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/internal/redislock"
)

// fakeStore implements the repository interfaces the services consume. Reads
// return copies so an aborted operation cannot leak mutations back into the
// store without an explicit save.
type fakeStore struct {
	users        map[int64]domain.User
	accounts     []domain.Account
	transactions []domain.Transaction

	nextAccountID     int64
	nextTransactionID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[int64]domain.User)}
}

func (f *fakeStore) addUser(user domain.User) {
	f.users[user.ID] = user
}

func (f *fakeStore) addAccount(account domain.Account) {
	f.nextAccountID++
	account.ID = f.nextAccountID
	f.accounts = append(f.accounts, account)
}

func (f *fakeStore) addTransaction(tran domain.Transaction) {
	f.nextTransactionID++
	tran.ID = f.nextTransactionID
	f.transactions = append(f.transactions, tran)
}

func (f *fakeStore) accountByNumber(number string) *domain.Account {
	for i := range f.accounts {
		if f.accounts[i].Number == number {
			return &f.accounts[i]
		}
	}

	return nil
}

func (f *fakeStore) User(_ context.Context, userID int64) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return &user, nil
}

func (f *fakeStore) AccountByID(_ context.Context, id int64) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return &account, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) AccountByNumber(_ context.Context, number string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Number == number {
			return &account, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) AccountsByUser(_ context.Context, userID int64) ([]domain.Account, error) {
	var accounts []domain.Account
	for _, account := range f.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}

func (f *fakeStore) CountAccountsByUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, account := range f.accounts {
		if account.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (f *fakeStore) LastAccountByUser(_ context.Context, userID int64) (*domain.Account, error) {
	for i := len(f.accounts) - 1; i >= 0; i-- {
		if f.accounts[i].UserID == userID {
			account := f.accounts[i]
			return &account, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) SaveAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account.ID == 0 {
		if f.accountByNumber(account.Number) != nil {
			return nil, domain.ErrAccountNumberAlreadyUsed
		}

		f.nextAccountID++
		account.ID = f.nextAccountID
		f.accounts = append(f.accounts, *account)

		return account, nil
	}

	for i := range f.accounts {
		if f.accounts[i].ID == account.ID {
			f.accounts[i] = *account
			return account, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

func (f *fakeStore) TransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	for _, tran := range f.transactions {
		if tran.TransactionID == transactionID {
			return &tran, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

func (f *fakeStore) CreateTransaction(_ context.Context, tran *domain.Transaction) (*domain.Transaction, error) {
	f.nextTransactionID++
	tran.ID = f.nextTransactionID
	f.transactions = append(f.transactions, *tran)

	return tran, nil
}

func (f *fakeStore) ApplyTransaction(ctx context.Context, tran *domain.Transaction, account *domain.Account) (*domain.Transaction, error) {
	if _, err := f.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return f.CreateTransaction(ctx, tran)
}

type fakeHandle struct {
	locker *fakeLocker
	key    string
}

func (h *fakeHandle) Unlock(_ context.Context) {
	h.locker.released = append(h.locker.released, h.key)
}

// fakeLocker records acquired and released keys; set busy to simulate
// contention.
type fakeLocker struct {
	busy     bool
	acquired []string
	released []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (redislock.Handle, error) {
	if l.busy {
		return nil, domain.ErrAccountLocked
	}

	l.acquired = append(l.acquired, key)

	return &fakeHandle{locker: l, key: key}, nil
}
