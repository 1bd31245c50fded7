package outbox_poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/double-entry-ledger/internal/config"
	"github.com/double-entry-ledger/internal/domain/outbox"
)

// MockEventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	message1, _ := testEventMessage(t)
	message2, _ := testEventMessage(t)
	message2.ID = 2

	tests := []struct {
		name          string
		setupMocks    func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher)
		expectedError error
	}{
		{
			name: "successful processing of pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()

				publisher.On("PublishEvent", mock.Anything, message1).Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "error getting pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()
			},
			expectedError: errors.New("failed to get pending outbox messages"),
		},
		{
			name: "no pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "error publishing one message",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()

				publisher.On("PublishEvent", mock.Anything, message1).Return(errors.New("publish error")).Once()

				outboxRepo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()

				// The batch continues past the failed message
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "max retry attempts reached",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				maxAttemptsMessage, _ := testEventMessage(t)
				maxAttemptsMessage.ID = 3
				maxAttemptsMessage.TransactionID = uuid.New()
				maxAttemptsMessage.Attempts = 2

				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{maxAttemptsMessage}, nil).Once()

				publisher.On("PublishEvent", mock.Anything, maxAttemptsMessage).Return(errors.New("publish error")).Once()

				outboxRepo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()

				outboxRepo.On("UpdateStatus", mock.Anything, int64(3), outbox.StatusFailedToPublish).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "increment attempts failure skips status update",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				maxAttemptsMessage, _ := testEventMessage(t)
				maxAttemptsMessage.ID = 4
				maxAttemptsMessage.Attempts = 2

				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{maxAttemptsMessage}, nil).Once()

				publisher.On("PublishEvent", mock.Anything, maxAttemptsMessage).Return(errors.New("publish error")).Once()

				outboxRepo.On("IncrementAttempts", mock.Anything, int64(4)).Return(errors.New("db error")).Once()
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOutboxRepo := &MockOutboxRepo{}
			mockPublisher := &MockEventPublisher{}
			poller := NewPoller(cfg, mockOutboxRepo, mockPublisher, logger)

			tt.setupMocks(mockOutboxRepo, mockPublisher)
			ctx := context.Background()

			err := poller.processPendingMessages(ctx)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockOutboxRepo.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestPoller_Start(t *testing.T) {
	mockOutboxRepo := &MockOutboxRepo{}
	mockPublisher := &MockEventPublisher{}
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	poller := NewPoller(cfg, mockOutboxRepo, mockPublisher, logger)

	mockOutboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go poller.Start(ctx)

	<-ctx.Done()
	// Poller must exit on cancellation; nothing left to assert beyond mock expectations
	mockOutboxRepo.AssertExpectations(t)
}
