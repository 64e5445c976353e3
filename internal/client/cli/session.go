package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophauth/internal/client/api"
	"github.com/iudanet/gophauth/internal/client/storage"
	pkgapi "github.com/iudanet/gophauth/pkg/api"
)

// saveSession сохраняет сессию, выданную register или login
func (c *Cli) saveSession(ctx context.Context, data *pkgapi.AuthData) error {
	auth := &storage.AuthData{
		Email:        data.User.Email,
		UserUUID:     data.User.UUID,
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(data.ExpiresIn) * time.Second).Unix(),
	}
	if err := c.store.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// loadSession возвращает сохранённую сессию или ErrNotLoggedIn
func (c *Cli) loadSession(ctx context.Context) (*storage.AuthData, error) {
	auth, err := c.store.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return auth, nil
}

// refresh ротирует пару токенов. Старый refresh token после этого недействителен,
// поэтому новая пара сохраняется сразу.
func (c *Cli) refresh(ctx context.Context, auth *storage.AuthData) error {
	tokens, err := c.apiClient.Refresh(ctx, auth.RefreshToken)
	if errors.Is(err, api.ErrUnauthorized) {
		_ = c.store.DeleteAuth(ctx)
		return ErrSessionExpired
	}
	if err != nil {
		return err
	}

	auth.AccessToken = tokens.AccessToken
	auth.RefreshToken = tokens.RefreshToken
	auth.ExpiresAt = c.now().Add(time.Duration(tokens.ExpiresIn) * time.Second).Unix()
	if err := c.store.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// withSession вызывает fn с действующим access token. Просроченный токен
// обновляется заранее. Если сервер отклонил токен, пара обновляется один раз
// и вызов повторяется.
func (c *Cli) withSession(ctx context.Context, fn func(accessToken string) error) error {
	auth, err := c.loadSession(ctx)
	if err != nil {
		return err
	}

	if auth.AccessExpired(c.now()) {
		if err := c.refresh(ctx, auth); err != nil {
			return err
		}
	}

	err = fn(auth.AccessToken)
	if !api.IsTokenRejected(err) {
		return err
	}

	if err := c.refresh(ctx, auth); err != nil {
		return err
	}
	return fn(auth.AccessToken)
}
