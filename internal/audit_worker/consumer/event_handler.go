package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/double-entry-ledger/internal/audit_worker/service"
	"github.com/double-entry-ledger/internal/domain/audit"
	"github.com/double-entry-ledger/internal/platform/messaging/producers"
)

// EventHandler handles incoming transaction event messages from Kafka
type EventHandler struct {
	archiveService service.ArchiveService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewEventHandler creates a new handler
func NewEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	producer producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		archiveService: archiveService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage processes Kafka messages
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event audit.Event
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal transaction event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received transaction event for archiving",
		"transaction_id", event.TransactionID.String(),
		"type", string(event.Type),
		"status", string(event.Status),
	)

	if err := h.archiveService.ArchiveEvent(ctx, &event); err != nil {
		logger.Error("Failed to archive transaction event",
			"transaction_id", event.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("archiving event %s failed: %w", event.TransactionID.String(), err)
	}

	logger.Info("Successfully archived transaction event", "transaction_id", event.TransactionID.String())
	return nil // Success, commit offset
}
