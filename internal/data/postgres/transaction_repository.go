package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/double-entry-ledger/internal/domain/transaction"
	"github.com/double-entry-ledger/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transaction record. Records are only ever created in
// PENDING status.
func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, source_account_id, destination_account_id, amount, currency, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.Type,
		txn.SourceAccountID,
		txn.DestinationAccountID,
		txn.Amount,
		txn.Currency,
		txn.Status,
		txn.Description,
		txn.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT id, type, source_account_id, destination_account_id, amount, currency, status, description, created_at
		FROM transactions
		WHERE id = $1
	`

	var txn transaction.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.Type,
		&txn.SourceAccountID,
		&txn.DestinationAccountID,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.Description,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// UpdateStatus moves a PENDING transaction to a terminal status. The WHERE
// clause keeps PENDING -> terminal as the only transition representable at
// the SQL level: updating an already-terminal record affects zero rows.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	if !transaction.StatusPending.CanTransitionTo(status) {
		return transaction.ErrIllegalTransition{TransactionID: id, Target: status}
	}

	query := `
		UPDATE transactions
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	result, err := r.querier.Exec(ctx, query, status, id, transaction.StatusPending)
	if err != nil {
		r.logger.Error("Failed to update transaction status", "id", id.String(), "status", string(status), "error", err)
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrIllegalTransition{TransactionID: id, Target: status}
	}

	return nil
}

// GetByParticipant returns transactions where the account appears as source
// or destination, newest first
func (r *TransactionRepository) GetByParticipant(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, type, source_account_id, destination_account_id, amount, currency, status, description, created_at
		FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to get transactions by participant", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transactions by participant: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		var txn transaction.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.Type,
			&txn.SourceAccountID,
			&txn.DestinationAccountID,
			&txn.Amount,
			&txn.Currency,
			&txn.Status,
			&txn.Description,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return txns, nil
}
