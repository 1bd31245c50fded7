package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/ledger"
	"github.com/double-entry-ledger/internal/domain/transaction"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount opens a new ACTIVE account for the given user
	CreateAccount(ctx context.Context, userID int64, accountType account.Type, currency string) (*account.Account, error)

	// GetAccountWithBalance retrieves an account with its derived balance
	// populated. Returns ErrAccountNotFound if the account doesn't exist.
	GetAccountWithBalance(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// ListLedgerEntries returns the full entry history for an account,
	// ascending by creation time. Returns ErrAccountNotFound if the account
	// doesn't exist.
	ListLedgerEntries(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error)
}

// TransactionService coordinates the three money-movement operations. Each
// operation is an atomic unit of work: either the ledger entries and the
// COMPLETED status are all durably applied, or none are. A transaction record
// that passed its precondition checks is never left PENDING on a normal
// return path; rejections and storage failures drive it to FAILED before the
// error surfaces.
type TransactionService interface {
	// Deposit credits an account. No funds check is performed: deposits
	// always succeed once the destination account exists and is active.
	Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*transaction.Transaction, error)

	// Withdraw debits an account after verifying sufficient funds under an
	// exclusive account lock. Returns ErrInsufficientFunds if the post-debit
	// balance would be negative; the FAILED record is preserved.
	Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*transaction.Transaction, error)

	// Transfer moves funds between two accounts of the same currency,
	// producing a matched DEBIT/CREDIT entry pair. Only the source account is
	// locked; crediting the destination is safe regardless of its balance.
	Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount decimal.Decimal, description string) (*transaction.Transaction, error)

	// GetTransactionByID retrieves a transaction by its ID
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)

	// GetTransactionsByParticipant returns transactions where the account is
	// source or destination, newest first
	GetTransactionsByParticipant(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error)
}
