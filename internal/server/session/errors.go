package session

import (
	"errors"
	"fmt"
)

// Business-rule failures are terminal for a request. ErrStorageUnavailable
// is the only class a caller should retry.
var (
	ErrConflict             = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrNotFound             = errors.New("not found")
	ErrTooManyAttempts      = errors.New("too many attempts")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// Stable error tags returned to API clients.
const (
	CodeConflict             = "CONFLICT"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidRefreshToken  = "INVALID_REFRESH_TOKEN"
	CodeInvalidOrExpiredCode = "INVALID_OR_EXPIRED_CODE"
	CodeNotFound             = "NOT_FOUND"
	CodeTooManyAttempts      = "TOO_MANY_ATTEMPTS"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrConflict, CodeConflict},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrInvalidRefreshToken, CodeInvalidRefreshToken},
	{ErrInvalidOrExpiredCode, CodeInvalidOrExpiredCode},
	{ErrNotFound, CodeNotFound},
	{ErrTooManyAttempts, CodeTooManyAttempts},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrStorageUnavailable, CodeStorageUnavailable},
}

// Code maps err to its stable tag. Unknown errors are CodeInternal.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
