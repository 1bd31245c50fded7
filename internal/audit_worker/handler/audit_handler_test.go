package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/double-entry-ledger/internal/audit_worker/service"
	"github.com/double-entry-ledger/internal/domain/audit"
)

type MockAuditQueryService struct {
	mock.Mock
}

func (m *MockAuditQueryService) GetEvent(ctx context.Context, transactionID uuid.UUID) (*audit.Event, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Event), args.Error(1)
}

func (m *MockAuditQueryService) GetAccountHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*audit.Event, int64, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*audit.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditQueryService) GetEventsByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Event, error) {
	args := m.Called(ctx, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Event), args.Error(1)
}

var _ service.AuditQueryService = (*MockAuditQueryService)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

// decodeData re-marshals the response's data field into the typed DTO
func decodeData(t *testing.T, data interface{}, out interface{}) {
	t.Helper()
	dataBytes, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, out))
}

func testEvent() *audit.Event {
	sourceID := uuid.New()
	return &audit.Event{
		TransactionID:   uuid.New(),
		Type:            "WITHDRAWAL",
		Status:          "COMPLETED",
		SourceAccountID: &sourceID,
		Amount:          decimal.RequireFromString("75.5000"),
		Currency:        "USD",
		CorrelationID:   "corr1",
		OccurredAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestAuditHandler_GetEvent(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		event := testEvent()
		mockService.On("GetEvent", mock.Anything, event.TransactionID).Return(event, nil)

		router := setupTestRouter()
		router.GET("/audit/transactions/:id", handler.GetEvent)

		req, _ := http.NewRequest(http.MethodGet, "/audit/transactions/"+event.TransactionID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Data)

		var responseBody EventResponse
		decodeData(t, topLevelResponse.Data, &responseBody)

		assert.Equal(t, event.TransactionID.String(), responseBody.TransactionID)
		assert.Equal(t, "WITHDRAWAL", responseBody.Type)
		assert.Equal(t, "COMPLETED", responseBody.Status)
		assert.Equal(t, "75.5000", responseBody.Amount)
		require.NotNil(t, responseBody.SourceAccountID)
		assert.Equal(t, event.SourceAccountID.String(), *responseBody.SourceAccountID)
		assert.Nil(t, responseBody.DestinationAccountID)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/audit/transactions/:id", handler.GetEvent)

		req, _ := http.NewRequest(http.MethodGet, "/audit/transactions/not-a-uuid", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		id := uuid.New()
		mockService.On("GetEvent", mock.Anything, id).
			Return(nil, audit.ErrEventNotFound{TransactionID: id})

		router := setupTestRouter()
		router.GET("/audit/transactions/:id", handler.GetEvent)

		req, _ := http.NewRequest(http.MethodGet, "/audit/transactions/"+id.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		id := uuid.New()
		mockService.On("GetEvent", mock.Anything, id).Return(nil, errors.New("mongo unavailable"))

		router := setupTestRouter()
		router.GET("/audit/transactions/:id", handler.GetEvent)

		req, _ := http.NewRequest(http.MethodGet, "/audit/transactions/"+id.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAuditHandler_GetAccountHistory(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		accountID := uuid.New()
		events := []*audit.Event{testEvent(), testEvent()}
		mockService.On("GetAccountHistory", mock.Anything, accountID, 10, 5).
			Return(events, int64(37), nil)

		router := setupTestRouter()
		router.GET("/audit/accounts/:id/events", handler.GetAccountHistory)

		url := fmt.Sprintf("/audit/accounts/%s/events?limit=10&offset=5", accountID)
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		var responseBody AccountHistoryResponse
		decodeData(t, topLevelResponse.Data, &responseBody)

		assert.Len(t, responseBody.Events, 2)
		assert.Equal(t, int64(37), responseBody.Total)
		assert.Equal(t, 10, responseBody.Limit)
		assert.Equal(t, 5, responseBody.Offset)

		mockService.AssertExpectations(t)
	})

	t.Run("DefaultPaging", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		accountID := uuid.New()
		mockService.On("GetAccountHistory", mock.Anything, accountID, service.DefaultPageSize, 0).
			Return([]*audit.Event{}, int64(0), nil)

		router := setupTestRouter()
		router.GET("/audit/accounts/:id/events", handler.GetAccountHistory)

		req, _ := http.NewRequest(http.MethodGet, "/audit/accounts/"+accountID.String()+"/events", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/audit/accounts/:id/events", handler.GetAccountHistory)

		req, _ := http.NewRequest(http.MethodGet, "/audit/accounts/"+uuid.New().String()+"/events?limit=abc", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidAccountID", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/audit/accounts/:id/events", handler.GetAccountHistory)

		req, _ := http.NewRequest(http.MethodGet, "/audit/accounts/not-a-uuid/events", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAuditHandler_GetEventsByTimeRange(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		events := []*audit.Event{testEvent()}
		mockService.On("GetEventsByTimeRange", mock.Anything, from, to, service.DefaultPageSize, 0).
			Return(events, nil)

		router := setupTestRouter()
		router.GET("/audit/events", handler.GetEventsByTimeRange)

		url := fmt.Sprintf("/audit/events?from=%s&to=%s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		var responseBody EventListResponse
		decodeData(t, topLevelResponse.Data, &responseBody)
		assert.Len(t, responseBody.Events, 1)

		mockService.AssertExpectations(t)
	})

	t.Run("MissingFrom", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/audit/events", handler.GetEventsByTimeRange)

		req, _ := http.NewRequest(http.MethodGet, "/audit/events?to="+to.Format(time.RFC3339), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvertedWindow", func(t *testing.T) {
		mockService := new(MockAuditQueryService)
		handler := NewAuditHandler(logger, mockService)

		mockService.On("GetEventsByTimeRange", mock.Anything, to, from, service.DefaultPageSize, 0).
			Return(nil, service.ErrInvalidTimeRange)

		router := setupTestRouter()
		router.GET("/audit/events", handler.GetEventsByTimeRange)

		url := fmt.Sprintf("/audit/events?from=%s&to=%s",
			to.Format(time.RFC3339), from.Format(time.RFC3339))
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}
