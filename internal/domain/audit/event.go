package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/double-entry-ledger/internal/domain/transaction"
)

// Event mirrors a transaction that reached a terminal status. Events are
// produced through the transactional outbox, published to the event topic and
// archived for long-term audit queries. They are an audit signal only; the
// ledger in PostgreSQL remains the source of truth.
type Event struct {
	TransactionID        uuid.UUID          `json:"transaction_id" bson:"transaction_id"`
	Type                 transaction.Type   `json:"type" bson:"type"`
	Status               transaction.Status `json:"status" bson:"status"`
	SourceAccountID      *uuid.UUID         `json:"source_account_id,omitempty" bson:"source_account_id,omitempty"`
	DestinationAccountID *uuid.UUID         `json:"destination_account_id,omitempty" bson:"destination_account_id,omitempty"`
	Amount               decimal.Decimal    `json:"amount" bson:"amount"`
	Currency             string             `json:"currency" bson:"currency"`
	Description          string             `json:"description,omitempty" bson:"description,omitempty"`
	CorrelationID        string             `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt           time.Time          `json:"occurred_at" bson:"occurred_at"`
}

// NewEvent builds an event from a transaction in a terminal status
func NewEvent(txn *transaction.Transaction, correlationID string) *Event {
	return &Event{
		TransactionID:        txn.ID,
		Type:                 txn.Type,
		Status:               txn.Status,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		Description:          txn.Description,
		CorrelationID:        correlationID,
		OccurredAt:           time.Now().UTC(),
	}
}
