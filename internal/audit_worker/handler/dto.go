package handler

import (
	"time"

	"github.com/double-entry-ledger/internal/domain/audit"
)

// EventResponse is the wire representation of an archived event
type EventResponse struct {
	TransactionID        string  `json:"transaction_id"`
	Type                 string  `json:"type"`
	Status               string  `json:"status"`
	SourceAccountID      *string `json:"source_account_id,omitempty"`
	DestinationAccountID *string `json:"destination_account_id,omitempty"`
	Amount               string  `json:"amount"`
	Currency             string  `json:"currency"`
	Description          string  `json:"description,omitempty"`
	CorrelationID        string  `json:"correlation_id,omitempty"`
	OccurredAt           string  `json:"occurred_at"`
}

// EventListResponse wraps a page of events without a total count
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// AccountHistoryResponse wraps a page of events for one account together with
// the total count for pagination
type AccountHistoryResponse struct {
	Events []EventResponse `json:"events"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// mapEventToResponse maps an archived event to its response DTO
func mapEventToResponse(event *audit.Event) EventResponse {
	resp := EventResponse{
		TransactionID: event.TransactionID.String(),
		Type:          string(event.Type),
		Status:        string(event.Status),
		Amount:        event.Amount.StringFixed(4),
		Currency:      event.Currency,
		Description:   event.Description,
		CorrelationID: event.CorrelationID,
		OccurredAt:    event.OccurredAt.Format(time.RFC3339),
	}
	if event.SourceAccountID != nil {
		id := event.SourceAccountID.String()
		resp.SourceAccountID = &id
	}
	if event.DestinationAccountID != nil {
		id := event.DestinationAccountID.String()
		resp.DestinationAccountID = &id
	}
	return resp
}

func mapHistoryToResponse(events []*audit.Event, total int64, limit, offset int) AccountHistoryResponse {
	resp := AccountHistoryResponse{
		Events: make([]EventResponse, 0, len(events)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, event := range events {
		resp.Events = append(resp.Events, mapEventToResponse(event))
	}
	return resp
}
