package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/double-entry-ledger/internal/api/service"
	"github.com/double-entry-ledger/internal/domain/account"
	"github.com/double-entry-ledger/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for the money-movement operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Deposit handles crediting an account
func (h *TransactionHandler) Deposit(c *gin.Context) {
	accountID, amount, description, ok := h.bindAmountRequest(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.Deposit(c.Request.Context(), accountID, amount, description)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// Withdraw handles debiting an account with a funds check
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	accountID, amount, description, ok := h.bindAmountRequest(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.Withdraw(c.Request.Context(), accountID, amount, description)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// Transfer handles moving funds between two accounts
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		RespondBadRequest(c, "Amount must be positive")
		return
	}

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid source account ID")
		return
	}
	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	txn, err := h.transactionService.Transfer(c.Request.Context(), sourceID, destinationID, req.Amount, req.Description)
	if err != nil {
		h.respondTransactionError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// GetByID retrieves a transaction by its ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		var txnNotFound transaction.ErrTransactionNotFound
		if errors.As(err, &txnNotFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// GetByAccountID returns transactions where the account is source or destination
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	txns, err := h.transactionService.GetTransactionsByParticipant(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transactions", "account_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	response := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txns))}
	for _, txn := range txns {
		response.Transactions = append(response.Transactions, mapTransactionToResponse(txn))
	}
	RespondOK(c, response)
}

// bindAmountRequest parses and validates the shared deposit/withdrawal payload
func (h *TransactionHandler) bindAmountRequest(c *gin.Context) (uuid.UUID, decimal.Decimal, string, bool) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return uuid.Nil, decimal.Zero, "", false
	}
	if !req.Amount.IsPositive() {
		RespondBadRequest(c, "Amount must be positive")
		return uuid.Nil, decimal.Zero, "", false
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, decimal.Zero, "", false
	}

	return accountID, req.Amount, req.Description, true
}

// respondTransactionError maps coordinator failures to protocol status codes:
// missing accounts are 404, business-rule rejections of well-formed requests
// are 422, malformed values are 400, anything else is 500.
func (h *TransactionHandler) respondTransactionError(c *gin.Context, err error) {
	var accNotFound account.ErrAccountNotFound
	if errors.As(err, &accNotFound) {
		RespondNotFound(c, "Account not found: "+accNotFound.AccountID.String())
		return
	}

	var insufficientFunds transaction.ErrInsufficientFunds
	if errors.As(err, &insufficientFunds) {
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", insufficientFunds.Error())
		return
	}

	var frozen account.ErrAccountFrozen
	if errors.As(err, &frozen) {
		RespondUnprocessable(c, "ACCOUNT_FROZEN", frozen.Error())
		return
	}

	var currencyMismatch transaction.ErrCurrencyMismatch
	if errors.As(err, &currencyMismatch) {
		RespondBadRequest(c, currencyMismatch.Error())
		return
	}

	if errors.Is(err, transaction.ErrInvalidAmount) {
		RespondBadRequest(c, err.Error())
		return
	}

	h.logger.Error("Transaction failed", "error", err)
	RespondInternalError(c)
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(txn *transaction.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:          txn.ID.String(),
		Type:        string(txn.Type),
		Amount:      txn.Amount.StringFixed(4),
		Currency:    txn.Currency,
		Status:      string(txn.Status),
		Description: txn.Description,
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.SourceAccountID != nil {
		id := txn.SourceAccountID.String()
		response.SourceAccountID = &id
	}
	if txn.DestinationAccountID != nil {
		id := txn.DestinationAccountID.String()
		response.DestinationAccountID = &id
	}
	return response
}
