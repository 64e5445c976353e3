package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/pkg/api"
)

// maxBodySize ограничивает размер JSON тела запроса
const maxBodySize = 1 << 20

var errBadBody = errors.New("invalid request body")

// WriteJSON пишет конверт ответа
func WriteJSON(w http.ResponseWriter, statusCode int, resp api.Response) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteSuccess writes a successful envelope.
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJSON(w, statusCode, api.Response{Success: true, Message: message, Data: data})
}

// WriteError writes a failed envelope with a stable error code.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, api.Response{Success: false, Message: message, Error: code})
}

// statusFor maps a session error to its HTTP status and client message.
// Storage and internal failures never expose their cause.
func statusFor(err error) (int, string) {
	switch session.Code(err) {
	case session.CodeConflict:
		return http.StatusConflict, "Email already registered"
	case session.CodeInvalidCredentials:
		return http.StatusUnauthorized, "Invalid credentials"
	case session.CodeInvalidRefreshToken:
		return http.StatusUnauthorized, "Invalid refresh token"
	case session.CodeUnauthorized:
		return http.StatusUnauthorized, "Unauthorized"
	case session.CodeInvalidInput:
		return http.StatusBadRequest, err.Error()
	case session.CodeInvalidOrExpiredCode:
		return http.StatusBadRequest, "Invalid or expired OTP code"
	case session.CodeNotFound:
		return http.StatusNotFound, "User not found"
	case session.CodeTooManyAttempts:
		return http.StatusTooManyRequests, "Too many attempts, please try again later"
	case session.CodeStorageUnavailable:
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeSessionError logs err and writes the matching envelope.
func writeSessionError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	status, message := statusFor(err)
	code := session.Code(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, op+" failed",
		slog.String("code", code),
		slog.Any("error", err),
	)

	WriteError(w, status, code, message)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(errBadBody, err)
	}
	return nil
}

func writeBadBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
	WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, errBadBody.Error())
}
