package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/ledger"
)

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)

		accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(acc *account.Account) bool {
			return acc.UserID == 42 && acc.Type == account.TypeSavings && acc.Currency == "EUR"
		})).Return(nil).Once()

		acc, err := svc.CreateAccount(ctx, 42, account.TypeSavings, "EUR")

		require.NoError(t, err)
		require.NotNil(t, acc)
		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, account.StatusActive, acc.Status)
		assert.True(t, acc.Balance.IsZero())
		accountRepo.AssertExpectations(t)
	})

	t.Run("invalid user id", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		svc := NewAccountService(accountRepo, &MockLedgerRepository{})

		acc, err := svc.CreateAccount(ctx, 0, account.TypeChecking, "USD")

		assert.ErrorIs(t, err, account.ErrInvalidUserID)
		assert.Nil(t, acc)
		accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid currency", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		svc := NewAccountService(accountRepo, &MockLedgerRepository{})

		acc, err := svc.CreateAccount(ctx, 42, account.TypeChecking, "dollars")

		assert.ErrorIs(t, err, account.ErrInvalidCurrencyFormat)
		assert.Nil(t, acc)
		accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		svc := NewAccountService(accountRepo, &MockLedgerRepository{})
		dbErr := errors.New("db error")

		accountRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr).Once()

		acc, err := svc.CreateAccount(ctx, 42, account.TypeChecking, "USD")

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, acc)
		accountRepo.AssertExpectations(t)
	})
}

func TestAccountService_GetAccountWithBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)

		acc := activeAccount("USD")
		balance := decimal.RequireFromString("250.7500")

		accountRepo.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		ledgerRepo.On("Balance", mock.Anything, acc.ID).Return(balance, nil).Once()

		got, err := svc.GetAccountWithBalance(ctx, acc.ID)

		require.NoError(t, err)
		assert.True(t, balance.Equal(got.Balance), "Balance should come from the ledger")
		accountRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("account not found", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)
		accID := uuid.New()

		accountRepo.On("GetByID", mock.Anything, accID).Return(nil, account.ErrAccountNotFound{AccountID: accID}).Once()

		got, err := svc.GetAccountWithBalance(ctx, accID)

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.Nil(t, got)
		ledgerRepo.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
	})

	t.Run("balance query error", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)

		acc := activeAccount("USD")
		dbErr := errors.New("db error")

		accountRepo.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		ledgerRepo.On("Balance", mock.Anything, acc.ID).Return(decimal.Zero, dbErr).Once()

		got, err := svc.GetAccountWithBalance(ctx, acc.ID)

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, got)
	})
}

func TestAccountService_ListLedgerEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)

		acc := activeAccount("USD")
		entries := []*ledger.Entry{
			{ID: uuid.New(), AccountID: acc.ID, Type: ledger.EntryTypeCredit, Amount: decimal.RequireFromString("100.0000"), CreatedAt: time.Now().Add(-time.Hour)},
			{ID: uuid.New(), AccountID: acc.ID, Type: ledger.EntryTypeDebit, Amount: decimal.RequireFromString("40.0000"), CreatedAt: time.Now()},
		}

		accountRepo.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		ledgerRepo.On("GetByAccountID", mock.Anything, acc.ID).Return(entries, nil).Once()

		got, err := svc.ListLedgerEntries(ctx, acc.ID)

		require.NoError(t, err)
		assert.Equal(t, entries, got)
		accountRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("missing account reported as not found, not empty history", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)
		accID := uuid.New()

		accountRepo.On("GetByID", mock.Anything, accID).Return(nil, account.ErrAccountNotFound{AccountID: accID}).Once()

		got, err := svc.ListLedgerEntries(ctx, accID)

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.Nil(t, got)
		ledgerRepo.AssertNotCalled(t, "GetByAccountID", mock.Anything, mock.Anything)
	})

	t.Run("empty history for existing account", func(t *testing.T) {
		accountRepo := &MockAccountRepository{}
		ledgerRepo := &MockLedgerRepository{}
		svc := NewAccountService(accountRepo, ledgerRepo)

		acc := activeAccount("USD")
		accountRepo.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		ledgerRepo.On("GetByAccountID", mock.Anything, acc.ID).Return([]*ledger.Entry{}, nil).Once()

		got, err := svc.ListLedgerEntries(ctx, acc.ID)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
