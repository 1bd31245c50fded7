package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/double-entry-ledger/internal/domain/audit"
)

const (
	// EventCollectionName is the name of the archived event collection in MongoDB
	EventCollectionName = "transaction_events"
)

// ArchiveRepository implements the audit.Repository interface for MongoDB
type ArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewArchiveRepository creates a new MongoDB archive repository
func NewArchiveRepository(logger *slog.Logger, db *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureIndexes creates the unique index on transaction_id that duplicate
// detection relies on. Must run before the repository serves writes; index
// creation is idempotent on the server side.
func (r *ArchiveRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(EventCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create archive indexes: %w", err)
	}
	return nil
}

// Create stores a new archived event. The unique index on transaction_id
// rejects redelivered events; the duplicate key error is mapped to
// ErrDuplicateEvent so callers can treat redelivery as idempotent.
func (r *ArchiveRepository) Create(ctx context.Context, event *audit.Event) error {
	collection := r.db.Collection(EventCollectionName)

	if _, err := collection.InsertOne(ctx, event); err != nil {
		mappedErr := insertError(err, event.TransactionID)
		if !errors.Is(mappedErr, audit.ErrDuplicateEvent{}) {
			r.logger.Error("Failed to archive event",
				"transaction_id", event.TransactionID.String(),
				"error", err)
		}
		return mappedErr
	}

	return nil
}

// insertError maps a failed archive insert onto the domain error taxonomy
func insertError(err error, transactionID uuid.UUID) error {
	if mongo.IsDuplicateKeyError(err) {
		return audit.ErrDuplicateEvent{TransactionID: transactionID}
	}
	return fmt.Errorf("failed to archive event: %w", err)
}

// GetByTransactionID retrieves an archived event by its transaction ID.
// Returns ErrEventNotFound if no event exists for the given transaction.
func (r *ArchiveRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*audit.Event, error) {
	collection := r.db.Collection(EventCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var event audit.Event
	err := collection.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, audit.ErrEventNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get archived event",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archived event: %w", err)
	}

	return &event, nil
}

// GetByAccountID retrieves paginated archived events where the account was
// either the source or the destination.
// Results are sorted by occurrence time in descending order (newest first).
func (r *ArchiveRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*audit.Event, error) {
	collection := r.db.Collection(EventCollectionName)

	filter := bson.M{
		"$or": []bson.M{
			{"source_account_id": accountID},
			{"destination_account_id": accountID},
		},
	}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archived events",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archived events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode archived events",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode archived events: %w", err)
	}

	return events, nil
}

// CountByAccountID counts the total number of archived events for an account
func (r *ArchiveRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(EventCollectionName)

	filter := bson.M{
		"$or": []bson.M{
			{"source_account_id": accountID},
			{"destination_account_id": accountID},
		},
	}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count archived events",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count archived events: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves paginated archived events within the specified time window.
// Results are sorted by occurrence time in descending order for recent-first access.
func (r *ArchiveRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*audit.Event, error) {
	collection := r.db.Collection(EventCollectionName)

	filter := bson.M{
		"occurred_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archived events by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get archived events by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode archived events",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode archived events: %w", err)
	}

	return events, nil
}
