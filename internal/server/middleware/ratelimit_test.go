package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophauth/internal/server/ratelimit"
	"github.com/iudanet/gophauth/pkg/api"
)

// failingStore всегда возвращает ошибку
type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error {
	return errors.New("connection refused")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Minute)
	t.Cleanup(store.Stop)

	limiter := ratelimit.New(store, "login", 5, time.Minute)
	handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

	for i := 0; i < 5; i++ {
		w := doRequest(handler, "192.168.1.1:1234")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	}

	// Шестой запрос в той же минуте отклоняется
	w := doRequest(handler, "192.168.1.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var resp api.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CodeRateLimited, resp.Error)

	// Другой IP имеет свой счётчик
	w = doRequest(handler, "192.168.1.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.New(ratelimit.NewRedisStore(client), "forgot", 3, time.Minute)
	handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1").Code)

	// Окно истекло, счётчик сброшен
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1").Code)
}

func TestRateLimitMiddleware_FailOpen(t *testing.T) {
	limiter := ratelimit.New(failingStore{}, "login", 1, time.Minute)
	handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1").Code)
	}
}

func TestRateLimitMiddleware_SpoofedForwardedFor(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Minute)
	t.Cleanup(store.Stop)

	send := func(h http.Handler, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("direct exposure ignores the header", func(t *testing.T) {
		limiter := ratelimit.New(store, "direct", 2, time.Minute)
		handler := RateLimitMiddleware(setupTestLogger(), limiter, false)(okHandler())

		// Каждый запрос подставляет новый X-Forwarded-For, счётчик один
		assert.Equal(t, http.StatusOK, send(handler, "198.51.100.1"))
		assert.Equal(t, http.StatusOK, send(handler, "198.51.100.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(handler, "198.51.100.3"))
	})

	t.Run("behind a trusted proxy the header is the key", func(t *testing.T) {
		limiter := ratelimit.New(store, "proxied", 2, time.Minute)
		handler := RateLimitMiddleware(setupTestLogger(), limiter, true)(okHandler())

		assert.Equal(t, http.StatusOK, send(handler, "198.51.100.1"))
		assert.Equal(t, http.StatusOK, send(handler, "198.51.100.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(handler, "198.51.100.1"))
		assert.Equal(t, http.StatusOK, send(handler, "198.51.100.2"))
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		expectedIP string
		trustProxy bool
	}{
		{
			name:       "X-Forwarded-For with single IP",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			trustProxy: true,
			expectedIP: "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For with multiple IPs",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1, 10.0.0.2, 10.0.0.3",
			trustProxy: true,
			expectedIP: "192.168.1.1", // Первый IP
		},
		{
			name:       "X-Real-IP when X-Forwarded-For is empty",
			remoteAddr: "10.0.0.1:12345",
			xRealIP:    "192.168.2.1",
			trustProxy: true,
			expectedIP: "192.168.2.1",
		},
		{
			name:       "untrusted X-Forwarded-For is ignored",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.3.1:54321",
			expectedIP: "192.168.3.1",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[::1]:54321",
			expectedIP: "::1",
		},
		{
			name:       "RemoteAddr that is not host:port",
			remoteAddr: "pipe",
			expectedIP: "pipe",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			xff:        "192.168.1.1",
			xRealIP:    "192.168.2.1",
			trustProxy: true,
			expectedIP: "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.expectedIP, getClientIP(req, tt.trustProxy))
		})
	}
}
