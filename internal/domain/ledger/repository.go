package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository manages the append-only ledger. The interface deliberately
// exposes no update or delete operations: once written, an entry is part of
// the permanent audit trail.
type Repository interface {
	// Append persists a new immutable entry
	Append(ctx context.Context, entry *Entry) error

	// GetByAccountID returns the full entry history for an account,
	// ascending by creation time
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Entry, error)

	// GetByTransactionID returns all entries written for a transaction
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error)

	// Balance derives the account balance as the signed sum over all entries.
	// An account with no entries has a balance of exactly zero.
	Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	WithTx(tx pgx.Tx) Repository
}
