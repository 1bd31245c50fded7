package service

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/domain/audit"
)

// Page size bounds for archive queries. Requests outside the bounds are
// clamped rather than rejected.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// ErrInvalidTimeRange indicates a query window whose end does not lie after
// its start
var ErrInvalidTimeRange = errors.New("time range end must be after start")

// AuditQueryServiceImpl implements AuditQueryService over the archive store
type AuditQueryServiceImpl struct {
	logger *slog.Logger
	repo   audit.Repository
}

// NewAuditQueryService creates the read-side service for archived events
func NewAuditQueryService(logger *slog.Logger, repo audit.Repository) AuditQueryService {
	return &AuditQueryServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetEvent returns the archived event for a transaction
func (s *AuditQueryServiceImpl) GetEvent(ctx context.Context, transactionID uuid.UUID) (*audit.Event, error) {
	return s.repo.GetByTransactionID(ctx, transactionID)
}

// GetAccountHistory returns a page of events involving the account, newest
// first, together with the total event count for pagination
func (s *AuditQueryServiceImpl) GetAccountHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*audit.Event, int64, error) {
	limit, offset = clampPage(limit, offset)

	events, err := s.repo.GetByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// GetEventsByTimeRange returns a page of events that occurred inside the
// window, newest first
func (s *AuditQueryServiceImpl) GetEventsByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Event, error) {
	if !to.After(from) {
		return nil, ErrInvalidTimeRange
	}
	limit, offset = clampPage(limit, offset)

	return s.repo.GetByTimeRange(ctx, from, to, limit, offset)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
