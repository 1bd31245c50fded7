package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/double-entry-ledger/internal/domain/ledger"
	"github.com/double-entry-ledger/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL.
// The ledger_entries table is append-only: this repository issues INSERT and
// SELECT statements exclusively.
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so entry appends commit
// atomically with the owning transaction's status update
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append persists a new immutable ledger entry
func (r *LedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, transaction_id, type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.TransactionID,
		entry.Type,
		entry.Amount,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append ledger entry",
			"account_id", entry.AccountID.String(),
			"transaction_id", entry.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// GetByAccountID returns the full entry history for an account in ascending
// creation order. The entry ID breaks ties between entries written in the
// same microsecond.
func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error) {
	query := `
		SELECT id, account_id, transaction_id, type, amount, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.querier.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to get ledger entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByTransactionID returns all entries written for a transaction
func (r *LedgerRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*ledger.Entry, error) {
	query := `
		SELECT id, account_id, transaction_id, type, amount, created_at
		FROM ledger_entries
		WHERE transaction_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.querier.Query(ctx, query, transactionID)
	if err != nil {
		r.logger.Error("Failed to get ledger entries by transaction", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entries by transaction: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Balance derives the account balance as the signed sum over all entries.
// COALESCE guarantees an exact decimal zero for an account with no entries.
func (r *LedgerRepository) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE account_id = $1
	`

	var balance decimal.Decimal
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		r.logger.Error("Failed to calculate balance", "account_id", accountID.String(), "error", err)
		return decimal.Zero, fmt.Errorf("failed to calculate balance: %w", err)
	}

	return balance, nil
}

// scanEntries collects ledger entries from a result set
func scanEntries(rows pgx.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransactionID,
			&entry.Type,
			&entry.Amount,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, nil
}
