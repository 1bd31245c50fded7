package handler

import "github.com/shopspring/decimal"

// CreateAccountRequest represents a request to open a new account
type CreateAccountRequest struct {
	UserID   int64  `json:"user_id" binding:"required,gt=0"`
	Type     string `json:"type" binding:"required,oneof=CHECKING SAVINGS"`
	Currency string `json:"currency" binding:"required,len=3"`
}

// AccountResponse represents an account in API responses. The balance is the
// derived signed sum over the account's ledger entries, rendered with the
// uniform 4 fractional digits.
type AccountResponse struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// AmountRequest represents a deposit or withdrawal request
type AmountRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description,omitempty"`
}

// TransferRequest represents a transfer request between two accounts
type TransferRequest struct {
	SourceAccountID      string          `json:"source_account_id" binding:"required,uuid"`
	DestinationAccountID string          `json:"destination_account_id" binding:"required,uuid"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Description          string          `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	SourceAccountID      *string `json:"source_account_id,omitempty"`
	DestinationAccountID *string `json:"destination_account_id,omitempty"`
	Amount               string  `json:"amount"`
	Currency             string  `json:"currency"`
	Status               string  `json:"status"`
	Description          string  `json:"description,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	CreatedAt     string `json:"created_at"`
}

// LedgerEntryListResponse represents an account's entry history in API responses
type LedgerEntryListResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}
