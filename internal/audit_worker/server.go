// Package audit_worker hosts the read-side HTTP surface of the audit
// pipeline. Writes enter the archive through the Kafka consumer; this server
// only answers queries against already-archived events.
package audit_worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/double-entry-ledger/internal/api/middleware"
	"github.com/double-entry-ledger/internal/audit_worker/handler"
	"github.com/double-entry-ledger/internal/audit_worker/service"
	"github.com/double-entry-ledger/internal/config"
)

// QueryServer exposes the archived event history over HTTP
type QueryServer struct {
	logger     *slog.Logger
	httpServer *http.Server
}

// NewQueryServer creates and configures the audit query server
func NewQueryServer(log *slog.Logger, cfg *config.Config, queryService service.AuditQueryService) *QueryServer {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.CorrelationID())

	auditHandler := handler.NewAuditHandler(log, queryService)

	audit := router.Group("/api/v1/audit")
	{
		audit.GET("/transactions/:id", auditHandler.GetEvent)
		audit.GET("/accounts/:id/events", auditHandler.GetAccountHistory)
		audit.GET("/events", auditHandler.GetEventsByTimeRange)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &QueryServer{
		logger:     log,
		httpServer: httpServer,
	}
}

// Start begins listening for HTTP requests
func (s *QueryServer) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start audit query server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *QueryServer) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop audit query server: %w", err)
	}
	return nil
}
