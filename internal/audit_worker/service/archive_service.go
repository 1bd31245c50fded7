package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/double-entry-ledger/internal/domain/audit"
)

// ArchiveServiceImpl implements the ArchiveService interface
type ArchiveServiceImpl struct {
	archiveRepo audit.Repository
	logger      *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(logger *slog.Logger, archiveRepo audit.Repository) ArchiveService {
	return &ArchiveServiceImpl{
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// ArchiveEvent stores a transaction event in the archive. Redelivered events
// are treated as already handled, so consumers can safely commit their offset.
func (s *ArchiveServiceImpl) ArchiveEvent(ctx context.Context, event *audit.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	if err := s.archiveRepo.Create(ctx, event); err != nil {
		if errors.Is(err, audit.ErrDuplicateEvent{}) {
			logger.Info("Event already archived, skipping",
				"transaction_id", event.TransactionID.String(),
			)
			return nil
		}
		logger.Error("Failed to archive transaction event",
			"transaction_id", event.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to archive event %s: %w", event.TransactionID.String(), err)
	}

	logger.Info("Archived transaction event",
		"transaction_id", event.TransactionID.String(),
		"type", string(event.Type),
		"status", string(event.Status),
	)
	return nil
}
