package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository manages transaction record persistence. UpdateStatus is the only
// permitted mutation after creation and only moves a PENDING record to a
// terminal status.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// GetByParticipant returns transactions where the account appears as
	// source or destination, newest first
	GetByParticipant(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrIllegalTransition indicates an attempt to move a transaction out of a
// terminal status, or into a non-terminal one
type ErrIllegalTransition struct {
	TransactionID uuid.UUID
	Target        Status
}

func (e ErrIllegalTransition) Error() string {
	return "illegal status transition to " + string(e.Target) + " for transaction: " + e.TransactionID.String()
}

// ErrInsufficientFunds indicates the source balance would go negative
type ErrInsufficientFunds struct {
	AccountID uuid.UUID
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return "insufficient funds for account " + e.AccountID.String() +
		": balance " + e.Balance.String() + ", requested " + e.Requested.String()
}

// Is implements the errors.Is interface for ErrInsufficientFunds
func (e ErrInsufficientFunds) Is(target error) bool {
	_, ok := target.(ErrInsufficientFunds)
	return ok
}

// ErrCurrencyMismatch indicates a transfer between accounts of differing currency
type ErrCurrencyMismatch struct {
	SourceCurrency      string
	DestinationCurrency string
}

func (e ErrCurrencyMismatch) Error() string {
	return "currency mismatch: source " + e.SourceCurrency + ", destination " + e.DestinationCurrency
}

// Is implements the errors.Is interface for ErrCurrencyMismatch
func (e ErrCurrencyMismatch) Is(target error) bool {
	_, ok := target.(ErrCurrencyMismatch)
	return ok
}
