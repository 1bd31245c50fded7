package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a non-positive transaction amount. The boundary
// layer rejects these before the core is reached, but the core defends anyway.
var ErrInvalidAmount = errors.New("transaction amount must be positive")

// Type defines possible transaction operations
type Type string

const (
	TypeTransfer   Type = "TRANSFER"
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
)

// Status defines transaction lifecycle states. The only legal transitions
// are PENDING -> COMPLETED and PENDING -> FAILED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether the status permits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the transition from s to target is legal
func (s Status) CanTransitionTo(target Status) bool {
	return s == StatusPending && target.IsTerminal()
}

// Transaction records a money movement between internal accounts. Exactly one
// of SourceAccountID/DestinationAccountID is nil for WITHDRAWAL/DEPOSIT; both
// are set for TRANSFER. Once COMPLETED or FAILED the record is immutable.
type Transaction struct {
	ID                   uuid.UUID       `json:"id"`
	Type                 Type            `json:"type"`
	SourceAccountID      *uuid.UUID      `json:"source_account_id,omitempty"`
	DestinationAccountID *uuid.UUID      `json:"destination_account_id,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Status               Status          `json:"status"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// NewDeposit creates a PENDING deposit transaction crediting the destination account
func NewDeposit(destinationID uuid.UUID, amount decimal.Decimal, currency, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:                   uuid.New(),
		Type:                 TypeDeposit,
		DestinationAccountID: &destinationID,
		Amount:               amount,
		Currency:             currency,
		Status:               StatusPending,
		Description:          description,
		CreatedAt:            time.Now(),
	}, nil
}

// NewWithdrawal creates a PENDING withdrawal transaction debiting the source account
func NewWithdrawal(sourceID uuid.UUID, amount decimal.Decimal, currency, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:              uuid.New(),
		Type:            TypeWithdrawal,
		SourceAccountID: &sourceID,
		Amount:          amount,
		Currency:        currency,
		Status:          StatusPending,
		Description:     description,
		CreatedAt:       time.Now(),
	}, nil
}

// NewTransfer creates a PENDING transfer transaction moving funds between two accounts
func NewTransfer(sourceID, destinationID uuid.UUID, amount decimal.Decimal, currency, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:                   uuid.New(),
		Type:                 TypeTransfer,
		SourceAccountID:      &sourceID,
		DestinationAccountID: &destinationID,
		Amount:               amount,
		Currency:             currency,
		Status:               StatusPending,
		Description:          description,
		CreatedAt:            time.Now(),
	}, nil
}
