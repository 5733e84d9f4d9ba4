package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUseBalance(t *testing.T) {
	account := &Account{Balance: 1000}

	require.NoError(t, account.UseBalance(400))
	assert.Equal(t, int64(600), account.Balance)

	err := account.UseBalance(601)
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
	assert.Equal(t, int64(600), account.Balance)
}

func TestAccountUseBalanceNeverGoesNegative(t *testing.T) {
	account := &Account{Balance: 50}

	err := account.UseBalance(51)
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
	assert.Equal(t, int64(50), account.Balance)

	require.NoError(t, account.UseBalance(50))
	assert.Equal(t, int64(0), account.Balance)
}

func TestAccountCancelBalance(t *testing.T) {
	account := &Account{Balance: 600}

	account.CancelBalance(400)
	assert.Equal(t, int64(1000), account.Balance)
}
