package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/ledger"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository, ledgerRepo ledger.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// CreateAccount opens a new ACTIVE account for the given user
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID int64, accountType account.Type, currency string) (*account.Account, error) {
	acc, err := account.NewAccount(userID, accountType, currency)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccountWithBalance retrieves an account and populates its derived
// balance from the ledger. The balance is never read from the accounts table.
func (s *AccountServiceImpl) GetAccountWithBalance(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.Balance(ctx, id)
	if err != nil {
		return nil, err
	}
	acc.Balance = balance

	return acc, nil
}

// ListLedgerEntries returns the full audit trail for an account, ascending by
// creation time
func (s *AccountServiceImpl) ListLedgerEntries(ctx context.Context, accountID uuid.UUID) ([]*ledger.Entry, error) {
	// Resolve the account first so a missing account is reported as NotFound
	// rather than an empty history
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.ledgerRepo.GetByAccountID(ctx, accountID)
}
