package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// LockForUpdate acquires a pessimistic row lock on the account for the
	// duration of the enclosing transaction. It must be used before any
	// balance-dependent decision so that concurrent debits against the same
	// account are serialized.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// An empty target AccountID matches any ErrAccountNotFound
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrAccountFrozen indicates an attempt to move money through a non-ACTIVE account
type ErrAccountFrozen struct {
	AccountID uuid.UUID
}

func (e ErrAccountFrozen) Error() string {
	return "account is not active: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountFrozen
func (e ErrAccountFrozen) Is(target error) bool {
	t, ok := target.(ErrAccountFrozen)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}
