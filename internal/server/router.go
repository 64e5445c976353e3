// Package server wires storage, the session manager and the HTTP layer
// into a runnable application.
package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophauth/internal/server/handlers"
	"github.com/iudanet/gophauth/internal/server/middleware"
	"github.com/iudanet/gophauth/internal/server/ratelimit"
)

const healthPath = "/api/v1/health"

// RouteLimits per-route limiters keyed by client IP. Nil disables the limit.
type RouteLimits struct {
	Register       *ratelimit.Limiter
	Login          *ratelimit.Limiter
	Refresh        *ratelimit.Limiter
	ForgotPassword *ratelimit.Limiter
	ResetPassword  *ratelimit.Limiter
	ChangePassword *ratelimit.Limiter

	// TrustProxyHeaders keys limits on X-Forwarded-For / X-Real-IP
	TrustProxyHeaders bool
}

// Routes groups the handlers served by the router.
type Routes struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Health        *handlers.HealthHandler
	Authenticator middleware.Authenticator
	Limits        RouteLimits
}

// NewRouter builds the HTTP handler of the API.
func NewRouter(logger *slog.Logger, rt Routes) http.Handler {
	mux := http.NewServeMux()

	limited := func(l *ratelimit.Limiter, h http.HandlerFunc) http.Handler {
		if l == nil {
			return h
		}
		return middleware.RateLimitMiddleware(logger, l, rt.Limits.TrustProxyHeaders)(h)
	}
	bearer := middleware.AuthMiddleware(logger, rt.Authenticator)

	// Публичные эндпоинты
	mux.Handle("POST /api/v1/auth/register", limited(rt.Limits.Register, rt.Auth.Register))
	mux.Handle("POST /api/v1/auth/login", limited(rt.Limits.Login, rt.Auth.Login))
	mux.Handle("POST /api/v1/auth/refresh", limited(rt.Limits.Refresh, rt.Auth.Refresh))
	mux.Handle("POST /api/v1/auth/forgot-password", limited(rt.Limits.ForgotPassword, rt.Auth.ForgotPassword))
	mux.Handle("POST /api/v1/auth/reset-password", limited(rt.Limits.ResetPassword, rt.Auth.ResetPassword))
	mux.HandleFunc("GET "+healthPath, rt.Health.Health)

	// Защищённые эндпоинты
	mux.Handle("POST /api/v1/auth/change-password", limited(rt.Limits.ChangePassword, bearer(http.HandlerFunc(rt.Auth.ChangePassword)).ServeHTTP))
	mux.Handle("POST /api/v1/auth/logout", bearer(http.HandlerFunc(rt.Auth.Logout)))
	mux.Handle("GET /api/v1/users", bearer(http.HandlerFunc(rt.Users.List)))
	mux.Handle("GET /api/v1/users/{uuid}", bearer(http.HandlerFunc(rt.Users.Get)))

	var h http.Handler = mux
	h = middleware.LoggingWithSkip(logger, []string{healthPath})(h)
	h = middleware.RecoveryMiddleware(logger)(h)
	h = middleware.RequestID(h)
	return h
}
