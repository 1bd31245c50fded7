package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/domain/audit"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a terminal transaction event for reliable publishing. Rows
// are written in the same database transaction as the ledger entries they
// describe, so the event stream can never report a movement that was rolled
// back.
type Message struct {
	ID            int64           `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps an audit event into a pending outbox message
func NewMessage(event *audit.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: event.TransactionID,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

// GetEvent extracts the audit event from the payload
func (m *Message) GetEvent() (*audit.Event, error) {
	var event audit.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
