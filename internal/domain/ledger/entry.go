package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a non-positive entry amount
var ErrInvalidAmount = errors.New("ledger entry amount must be positive")

// EntryType defines the direction of a ledger entry
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// Entry is an immutable, signed monetary record attached to one account and
// one transaction. The stored amount is always positive; the entry type
// determines the sign during balance aggregation. Entries are never updated
// or deleted after creation.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          EntryType       `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewEntry creates a ledger entry for the given account and transaction
func NewEntry(accountID, transactionID uuid.UUID, entryType EntryType, amount decimal.Decimal) (*Entry, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Entry{
		ID:            uuid.New(),
		AccountID:     accountID,
		TransactionID: transactionID,
		Type:          entryType,
		Amount:        amount,
		CreatedAt:     time.Now(),
	}, nil
}

// SignedAmount returns +amount for CREDIT entries and -amount for DEBIT entries
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Type == EntryTypeCredit {
		return e.Amount
	}
	return e.Amount.Neg()
}
