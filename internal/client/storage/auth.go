// Package storage describes the local session store of the CLI client.
package storage

import (
	"context"
	"time"
)

// AuthStorage хранит текущую сессию клиента
type AuthStorage interface {
	// SaveAuth заменяет сохранённую сессию
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth возвращает сохранённую сессию.
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if valid authentication exists (not expired)
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData сессия, полученная при register/login.
// Токены хранятся как есть: файл базы создаётся с правами 0600.
type AuthData struct {
	Email        string `json:"email"`
	UserUUID     string `json:"user_uuid"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix-время истечения access token
}

// AccessExpired reports whether the access token is expired at now.
func (a *AuthData) AccessExpired(now time.Time) bool {
	return !now.Before(time.Unix(a.ExpiresAt, 0))
}
