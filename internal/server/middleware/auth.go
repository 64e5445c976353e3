package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/gophauth/internal/server/handlers"
	"github.com/iudanet/gophauth/internal/server/jwt"
	"github.com/iudanet/gophauth/internal/server/session"
)

// Authenticator проверяет access token
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT access токена
func AuthMiddleware(logger *slog.Logger, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Missing Authorization header")
				handlers.WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized: missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "Invalid Authorization header format")
				handlers.WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized: invalid token format")
				return
			}

			claims, err := auth.Authenticate(ctx, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "Invalid access token", slog.Any("error", err))
				handlers.WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized: invalid token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.WarnContext(ctx, "Invalid token subject", slog.Any("error", err))
				handlers.WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized: invalid token")
				return
			}

			logger.DebugContext(ctx, "User authenticated", slog.Int64("user_id", userID))

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, userID, claims.Email)))
		})
	}
}
