package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/internal/server/storage"
	"github.com/iudanet/gophauth/pkg/api"
)

const healthTimeout = 2 * time.Second

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	version string
	checks  []storage.Pinger
}

// NewHealthHandler создает новый handler для health check.
// Every check must answer for the service to be healthy.
func NewHealthHandler(logger *slog.Logger, version string, checks ...storage.Pinger) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		version: version,
		checks:  checks,
	}
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Storage: "ok",
	}

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check failed", slog.Any("error", err))
			resp.Status = "degraded"
			resp.Storage = "unavailable"

			WriteJSON(w, http.StatusServiceUnavailable, api.Response{
				Success: false,
				Message: "Service unhealthy",
				Error:   session.CodeStorageUnavailable,
				Data:    resp,
			})
			return
		}
	}

	WriteSuccess(w, http.StatusOK, "Service healthy", resp)
}
