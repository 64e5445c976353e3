package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/pkg/api"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	handler := NewHealthHandler(setupTestLogger(), "1.2.3", ok, ok)

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var health api.HealthResponse
	resp := decodeEnvelope(t, w, &health)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
	assert.Equal(t, "ok", health.Storage)
}

func TestHealthHandler_Health_Degraded(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("database is locked") })
	handler := NewHealthHandler(setupTestLogger(), "dev", ok, down)

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health api.HealthResponse
	resp := decodeEnvelope(t, w, &health)
	assert.False(t, resp.Success)
	assert.Equal(t, session.CodeStorageUnavailable, resp.Error)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unavailable", health.Storage)
}
