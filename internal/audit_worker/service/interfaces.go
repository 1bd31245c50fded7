package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/domain/audit"
)

// ArchiveService persists published transaction events into the long-term
// archive store
type ArchiveService interface {
	ArchiveEvent(ctx context.Context, event *audit.Event) error
}

// AuditQueryService serves read access to the archived event history
type AuditQueryService interface {
	GetEvent(ctx context.Context, transactionID uuid.UUID) (*audit.Event, error)
	GetAccountHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*audit.Event, int64, error)
	GetEventsByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Event, error)
}
