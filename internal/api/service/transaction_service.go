package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/double-entry-ledger/internal/api/middleware"
	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/audit"
	"github.com/double-entry-ledger/internal/domain/ledger"
	"github.com/double-entry-ledger/internal/domain/outbox"
	"github.com/double-entry-ledger/internal/domain/transaction"
	"github.com/double-entry-ledger/internal/platform/persistence"
)

// TransactionServiceImpl implements the TransactionService interface. It is
// the single writer of ledger entries: entries are appended exclusively while
// committing a transaction, inside the same database transaction as the
// COMPLETED status update.
//
// The PENDING record itself is created on the pool connection and committed
// independently of the main unit of work. That keeps the audit trail of
// rejected attempts: when the unit of work rolls back (insufficient funds,
// storage failure), the record survives and is driven to FAILED.
type TransactionServiceImpl struct {
	db              UnitOfWork
	accountRepo     account.Repository
	ledgerRepo      ledger.Repository
	transactionRepo transaction.Repository
	outboxRepo      outbox.Repository
	logger          *slog.Logger
}

// UnitOfWork abstracts transaction control over the database handle.
// Satisfied by *persistence.PostgresDB.
type UnitOfWork interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

var _ UnitOfWork = (*persistence.PostgresDB)(nil)

// NewTransactionService creates a new transaction coordinator
func NewTransactionService(
	logger *slog.Logger,
	db UnitOfWork,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	transactionRepo transaction.Repository,
	outboxRepo outbox.Repository,
) TransactionService {
	return &TransactionServiceImpl{
		db:              db,
		accountRepo:     accountRepo,
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		logger:          logger,
	}
}

// Deposit credits an account. No funds check is performed.
func (s *TransactionServiceImpl) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*transaction.Transaction, error) {
	logger := s.opLogger(ctx)

	dest, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !dest.IsActive() {
		return nil, account.ErrAccountFrozen{AccountID: dest.ID}
	}

	txn, err := transaction.NewDeposit(dest.ID, amount, dest.Currency, description)
	if err != nil {
		return nil, err
	}

	// Committed independently of the unit of work below
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	logger.Info("Processing deposit",
		"transaction_id", txn.ID.String(),
		"account_id", dest.ID.String(),
		"amount", amount.String(),
	)

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		entry, entryErr := ledger.NewEntry(dest.ID, txn.ID, ledger.EntryTypeCredit, amount)
		if entryErr != nil {
			return entryErr
		}
		if appendErr := s.ledgerRepo.WithTx(tx).Append(ctx, entry); appendErr != nil {
			return appendErr
		}
		return s.complete(ctx, tx, txn)
	})
	if err != nil {
		s.markFailed(ctx, txn)
		return nil, fmt.Errorf("deposit %s failed: %w", txn.ID.String(), err)
	}

	logger.Info("Deposit completed", "transaction_id", txn.ID.String())
	return txn, nil
}

// Withdraw debits an account after verifying sufficient funds. The exclusive
// lock on the source account is held across the whole read-balance, decide,
// append-entry sequence so concurrent debits against the same account are
// serialized.
func (s *TransactionServiceImpl) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (txn *transaction.Transaction, err error) {
	logger := s.opLogger(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			// The tx may already be closed by a failAndRollback on the error path
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error("Failed to rollback unit of work", "rollback_error", rbErr, "original_error", err)
			}
		}
	}()

	src, err := s.accountRepo.WithTx(tx).LockForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !src.IsActive() {
		err = account.ErrAccountFrozen{AccountID: src.ID}
		return nil, err
	}

	txn, err = transaction.NewWithdrawal(src.ID, amount, src.Currency, description)
	if err != nil {
		return nil, err
	}
	if err = s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	logger.Info("Processing withdrawal",
		"transaction_id", txn.ID.String(),
		"account_id", src.ID.String(),
		"amount", amount.String(),
	)

	if err = s.debit(ctx, tx, txn, src.ID, amount); err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, err
	}
	if err = s.complete(ctx, tx, txn); err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, fmt.Errorf("withdrawal %s failed: %w", txn.ID.String(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.markFailed(ctx, txn)
		return nil, fmt.Errorf("failed to commit withdrawal %s: %w", txn.ID.String(), err)
	}

	logger.Info("Withdrawal completed", "transaction_id", txn.ID.String())
	return txn, nil
}

// Transfer moves funds between two accounts of the same currency. Only the
// source account is locked: the destination is appended to, never checked, so
// no operation ever holds locks on two accounts and cross-account deadlock is
// impossible.
func (s *TransactionServiceImpl) Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount decimal.Decimal, description string) (txn *transaction.Transaction, err error) {
	logger := s.opLogger(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			// The tx may already be closed by a failAndRollback on the error path
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error("Failed to rollback unit of work", "rollback_error", rbErr, "original_error", err)
			}
		}
	}()

	src, err := s.accountRepo.WithTx(tx).LockForUpdate(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	// Non-exclusive read is sufficient: only the source balance gates the
	// operation
	dest, err := s.accountRepo.GetByID(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	if !src.IsActive() {
		err = account.ErrAccountFrozen{AccountID: src.ID}
		return nil, err
	}
	if !dest.IsActive() {
		err = account.ErrAccountFrozen{AccountID: dest.ID}
		return nil, err
	}
	if src.Currency != dest.Currency {
		err = transaction.ErrCurrencyMismatch{SourceCurrency: src.Currency, DestinationCurrency: dest.Currency}
		return nil, err
	}

	txn, err = transaction.NewTransfer(src.ID, dest.ID, amount, src.Currency, description)
	if err != nil {
		return nil, err
	}
	if err = s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	logger.Info("Processing transfer",
		"transaction_id", txn.ID.String(),
		"source_account_id", src.ID.String(),
		"destination_account_id", dest.ID.String(),
		"amount", amount.String(),
	)

	if err = s.debit(ctx, tx, txn, src.ID, amount); err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, err
	}

	creditEntry, err := ledger.NewEntry(dest.ID, txn.ID, ledger.EntryTypeCredit, amount)
	if err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, err
	}
	if err = s.ledgerRepo.WithTx(tx).Append(ctx, creditEntry); err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, fmt.Errorf("transfer %s failed: %w", txn.ID.String(), err)
	}

	if err = s.complete(ctx, tx, txn); err != nil {
		s.failAndRollback(ctx, tx, txn)
		return nil, fmt.Errorf("transfer %s failed: %w", txn.ID.String(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.markFailed(ctx, txn)
		return nil, fmt.Errorf("failed to commit transfer %s: %w", txn.ID.String(), err)
	}

	logger.Info("Transfer completed", "transaction_id", txn.ID.String())
	return txn, nil
}

// GetTransactionByID retrieves a transaction by its ID
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// GetTransactionsByParticipant returns transactions where the account is
// source or destination, newest first
func (s *TransactionServiceImpl) GetTransactionsByParticipant(ctx context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return s.transactionRepo.GetByParticipant(ctx, accountID)
}

// debit verifies sufficient funds under the lock held by tx and appends the
// DEBIT entry. The balance is derived inside the locked transaction, so the
// value observed cannot be changed by a concurrent debit before this unit of
// work commits.
func (s *TransactionServiceImpl) debit(ctx context.Context, tx pgx.Tx, txn *transaction.Transaction, accountID uuid.UUID, amount decimal.Decimal) error {
	balance, err := s.ledgerRepo.WithTx(tx).Balance(ctx, accountID)
	if err != nil {
		return fmt.Errorf("funds check for %s failed: %w", txn.ID.String(), err)
	}

	if balance.Sub(amount).IsNegative() {
		return transaction.ErrInsufficientFunds{
			AccountID: accountID,
			Balance:   balance,
			Requested: amount,
		}
	}

	entry, err := ledger.NewEntry(accountID, txn.ID, ledger.EntryTypeDebit, amount)
	if err != nil {
		return err
	}
	if err := s.ledgerRepo.WithTx(tx).Append(ctx, entry); err != nil {
		return fmt.Errorf("debit for %s failed: %w", txn.ID.String(), err)
	}

	return nil
}

// complete marks the transaction COMPLETED and stages its audit event in the
// outbox, both inside the unit of work
func (s *TransactionServiceImpl) complete(ctx context.Context, tx pgx.Tx, txn *transaction.Transaction) error {
	if err := s.transactionRepo.WithTx(tx).UpdateStatus(ctx, txn.ID, transaction.StatusCompleted); err != nil {
		return err
	}
	txn.Status = transaction.StatusCompleted

	event := audit.NewEvent(txn, middleware.CorrelationIDFromContext(ctx))
	message, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message for %s: %w", txn.ID.String(), err)
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, message)
}

// failAndRollback abandons the open unit of work before recording the FAILED
// status. The rollback must come first: the pool-side status write would
// otherwise queue behind any row lock the transaction still holds, most
// notably the one taken by an in-tx COMPLETED update that did not commit.
func (s *TransactionServiceImpl) failAndRollback(ctx context.Context, tx pgx.Tx, txn *transaction.Transaction) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.Error("Failed to rollback unit of work before marking FAILED",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
	}
	s.markFailed(ctx, txn)
}

// markFailed drives a transaction record to FAILED on a best-effort basis
// before the original error is surfaced. It runs on the pool connection,
// after the unit of work has been rolled back or has otherwise finished, so
// the status write commits without waiting on this request's own locks, and
// it survives caller cancellation. If even this update fails the record
// remains observably PENDING for out-of-band reconciliation.
func (s *TransactionServiceImpl) markFailed(ctx context.Context, txn *transaction.Transaction) {
	ctx = context.WithoutCancel(ctx)

	if err := s.transactionRepo.UpdateStatus(ctx, txn.ID, transaction.StatusFailed); err != nil {
		s.logger.Error("Failed to mark transaction FAILED, record remains PENDING",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return
	}
	txn.Status = transaction.StatusFailed

	// Stage the failure event too; the audit stream reports rejected attempts
	event := audit.NewEvent(txn, middleware.CorrelationIDFromContext(ctx))
	message, err := outbox.NewMessage(event)
	if err != nil {
		s.logger.Error("Failed to build outbox message for failed transaction", "transaction_id", txn.ID.String(), "error", err)
		return
	}
	if err := s.outboxRepo.Create(ctx, message); err != nil {
		s.logger.Error("Failed to stage failure event", "transaction_id", txn.ID.String(), "error", err)
	}
}

// opLogger attaches the request correlation ID when present
func (s *TransactionServiceImpl) opLogger(ctx context.Context) *slog.Logger {
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		return s.logger.With("correlation_id", correlationID)
	}
	return s.logger
}
