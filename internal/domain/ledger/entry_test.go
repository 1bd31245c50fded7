package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	accountID := uuid.New()
	transactionID := uuid.New()

	t.Run("SuccessfulCreation", func(t *testing.T) {
		amount := decimal.RequireFromString("100.5000")

		beforeCreation := time.Now()
		entry, err := NewEntry(accountID, transactionID, EntryTypeCredit, amount)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, entry)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, accountID, entry.AccountID)
		assert.Equal(t, transactionID, entry.TransactionID)
		assert.Equal(t, EntryTypeCredit, entry.Type)
		assert.True(t, amount.Equal(entry.Amount))
		assert.WithinDuration(t, beforeCreation, entry.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		entry, err := NewEntry(accountID, transactionID, EntryTypeDebit, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, entry)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		entry, err := NewEntry(accountID, transactionID, EntryTypeDebit, decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, entry)
	})
}

func TestEntry_SignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("25.7500")

	t.Run("CreditIsPositive", func(t *testing.T) {
		entry := &Entry{Type: EntryTypeCredit, Amount: amount}
		assert.True(t, amount.Equal(entry.SignedAmount()))
	})

	t.Run("DebitIsNegative", func(t *testing.T) {
		entry := &Entry{Type: EntryTypeDebit, Amount: amount}
		assert.True(t, amount.Neg().Equal(entry.SignedAmount()))
	})
}
