package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/double-entry-ledger/internal/domain/audit"
)

func queryTestEvent(accountID uuid.UUID) *audit.Event {
	return &audit.Event{
		TransactionID:   uuid.New(),
		Type:            "DEPOSIT",
		Status:          "COMPLETED",
		SourceAccountID: &accountID,
		Amount:          decimal.RequireFromString("25.0000"),
		Currency:        "USD",
		OccurredAt:      time.Now().UTC(),
	}
}

func TestAuditQueryService_GetEvent(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("returns archived event", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		event := queryTestEvent(uuid.New())
		mockRepo.On("GetByTransactionID", mock.Anything, event.TransactionID).Return(event, nil).Once()

		got, err := svc.GetEvent(ctx, event.TransactionID)
		assert.NoError(t, err)
		assert.Equal(t, event, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates not found", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		id := uuid.New()
		mockRepo.On("GetByTransactionID", mock.Anything, id).
			Return(nil, audit.ErrEventNotFound{TransactionID: id}).Once()

		got, err := svc.GetEvent(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, audit.ErrEventNotFound{})
		mockRepo.AssertExpectations(t)
	})
}

func TestAuditQueryService_GetAccountHistory(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("returns page with total", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		events := []*audit.Event{queryTestEvent(accountID), queryTestEvent(accountID)}
		mockRepo.On("GetByAccountID", mock.Anything, accountID, 10, 20).Return(events, nil).Once()
		mockRepo.On("CountByAccountID", mock.Anything, accountID).Return(int64(42), nil).Once()

		got, total, err := svc.GetAccountHistory(ctx, accountID, 10, 20)
		assert.NoError(t, err)
		assert.Equal(t, events, got)
		assert.Equal(t, int64(42), total)
		mockRepo.AssertExpectations(t)
	})

	t.Run("clamps page bounds", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		// Zero limit falls back to the default, negative offset to zero
		mockRepo.On("GetByAccountID", mock.Anything, accountID, DefaultPageSize, 0).
			Return([]*audit.Event{}, nil).Once()
		mockRepo.On("CountByAccountID", mock.Anything, accountID).Return(int64(0), nil).Once()

		_, _, err := svc.GetAccountHistory(ctx, accountID, 0, -5)
		assert.NoError(t, err)

		// Oversized limit is capped
		mockRepo.On("GetByAccountID", mock.Anything, accountID, MaxPageSize, 0).
			Return([]*audit.Event{}, nil).Once()
		mockRepo.On("CountByAccountID", mock.Anything, accountID).Return(int64(0), nil).Once()

		_, _, err = svc.GetAccountHistory(ctx, accountID, MaxPageSize+1, 0)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("count error", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		countErr := errors.New("mongo unavailable")
		mockRepo.On("GetByAccountID", mock.Anything, accountID, DefaultPageSize, 0).
			Return([]*audit.Event{}, nil).Once()
		mockRepo.On("CountByAccountID", mock.Anything, accountID).Return(int64(0), countErr).Once()

		got, total, err := svc.GetAccountHistory(ctx, accountID, DefaultPageSize, 0)
		assert.Nil(t, got)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, countErr)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuditQueryService_GetEventsByTimeRange(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	t.Run("returns events in window", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		events := []*audit.Event{queryTestEvent(uuid.New())}
		mockRepo.On("GetByTimeRange", mock.Anything, from, to, DefaultPageSize, 0).
			Return(events, nil).Once()

		got, err := svc.GetEventsByTimeRange(ctx, from, to, 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, events, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		got, err := svc.GetEventsByTimeRange(ctx, to, from, 10, 0)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
		mockRepo.AssertNotCalled(t, "GetByTimeRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects empty window", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewAuditQueryService(logger, mockRepo)

		got, err := svc.GetEventsByTimeRange(ctx, from, from, 10, 0)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})
}
