package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/api/service"
	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/ledger"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles opening of a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.UserID, account.Type(req.Type), req.Currency)
	if err != nil {
		if errors.Is(err, account.ErrInvalidUserID) ||
			errors.Is(err, account.ErrInvalidAccountType) ||
			errors.Is(err, account.ErrInvalidCurrencyFormat) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account with its derived balance, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccountWithBalance(c.Request.Context(), id)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// ListLedgerEntries returns the full entry history for an account, ascending
// by creation time
func (h *AccountHandler) ListLedgerEntries(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	entries, err := h.accountService.ListLedgerEntries(c.Request.Context(), id)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to list ledger entries", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := LedgerEntryListResponse{Entries: make([]LedgerEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, mapEntryToResponse(entry))
	}
	RespondOK(c, response)
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		UserID:    acc.UserID,
		Type:      string(acc.Type),
		Currency:  acc.Currency,
		Status:    string(acc.Status),
		Balance:   acc.Balance.StringFixed(4),
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}
}

// mapEntryToResponse maps a ledger entry to a response DTO
func mapEntryToResponse(entry *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            entry.ID.String(),
		AccountID:     entry.AccountID.String(),
		TransactionID: entry.TransactionID.String(),
		Type:          string(entry.Type),
		Amount:        entry.Amount.StringFixed(4),
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}
