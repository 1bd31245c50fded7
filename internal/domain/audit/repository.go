package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages the archived event store with pagination support
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Event, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Event, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Event, error)
}

// ErrEventNotFound indicates missing archived event
type ErrEventNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "audit event not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrEventNotFound
func (e ErrEventNotFound) Is(target error) bool {
	t, ok := target.(ErrEventNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateEvent indicates transaction uniqueness violation in the archive
type ErrDuplicateEvent struct {
	TransactionID uuid.UUID
}

func (e ErrDuplicateEvent) Error() string {
	return "duplicate audit event: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEvent
func (e ErrDuplicateEvent) Is(target error) bool {
	t, ok := target.(ErrDuplicateEvent)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
