package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidUserID         = errors.New("user id must be positive")
	ErrInvalidAccountType    = errors.New("account type must be CHECKING or SAVINGS")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// Type classifies an account
type Type string

const (
	TypeChecking Type = "CHECKING"
	TypeSavings  Type = "SAVINGS"
)

// Status defines the lifecycle state of an account
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusFrozen Status = "FROZEN"
)

// Account represents a bank account. The Balance field is never persisted;
// it is derived from the ledger on read and populated by the service layer.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int64           `json:"user_id"`
	Type      Type            `json:"type"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAccount creates a new ACTIVE account with the given parameters
func NewAccount(userID int64, accountType Type, currency string) (*Account, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if accountType != TypeChecking && accountType != TypeSavings {
		return nil, ErrInvalidAccountType
	}
	if len(currency) != 3 { // Basic validation for currency code length
		return nil, ErrInvalidCurrencyFormat
	}

	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      accountType,
		Currency:  currency,
		Status:    StatusActive,
		Balance:   decimal.Zero,
		CreatedAt: time.Now(),
	}, nil
}

// IsActive reports whether the account may participate in money movements
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}
