package handler

import (
	"errors"
	"strconv"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/double-entry-ledger/internal/audit_worker/service"
	"github.com/double-entry-ledger/internal/domain/audit"
)

// AuditHandler serves read access to the archived event history
type AuditHandler struct {
	queryService service.AuditQueryService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit query handler
func NewAuditHandler(logger *slog.Logger, queryService service.AuditQueryService) *AuditHandler {
	return &AuditHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// GetEvent returns the archived event for a transaction, 404 if none exists
func (h *AuditHandler) GetEvent(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		respondBadRequest(c, "Invalid transaction ID")
		return
	}

	event, err := h.queryService.GetEvent(c.Request.Context(), id)
	if err != nil {
		var notFound audit.ErrEventNotFound
		if errors.As(err, &notFound) {
			respondNotFound(c, "Audit event not found")
			return
		}
		h.logger.Error("Failed to get audit event", "transaction_id", idParam, "error", err)
		respondInternalError(c)
		return
	}

	respondOK(c, mapEventToResponse(event))
}

// GetAccountHistory returns a page of archived events involving the account,
// newest first
func (h *AuditHandler) GetAccountHistory(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		respondBadRequest(c, "Invalid account ID")
		return
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	events, total, err := h.queryService.GetAccountHistory(c.Request.Context(), id, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get account history", "account_id", idParam, "error", err)
		respondInternalError(c)
		return
	}

	respondOK(c, mapHistoryToResponse(events, total, limit, offset))
}

// GetEventsByTimeRange returns a page of archived events inside the window
// given by the from/to query parameters (RFC 3339)
func (h *AuditHandler) GetEventsByTimeRange(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		respondBadRequest(c, "Invalid or missing 'from' timestamp, expected RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		respondBadRequest(c, "Invalid or missing 'to' timestamp, expected RFC 3339")
		return
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	events, err := h.queryService.GetEventsByTimeRange(c.Request.Context(), from, to, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			respondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to get events by time range", "error", err)
		respondInternalError(c)
		return
	}

	response := EventListResponse{Events: make([]EventResponse, 0, len(events))}
	for _, event := range events {
		response.Events = append(response.Events, mapEventToResponse(event))
	}
	respondOK(c, response)
}

func pageParams(c *gin.Context) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		return 0, 0, errors.New("invalid 'limit' parameter")
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, errors.New("invalid 'offset' parameter")
	}
	return limit, offset, nil
}
