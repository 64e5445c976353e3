package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophauth/internal/client/api"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	auth, err := c.loadSession(ctx)
	if err != nil {
		return err
	}

	// 401 значит, что сессия на сервере уже отозвана: локальную всё равно удаляем
	err = c.apiClient.Logout(ctx, auth.AccessToken)
	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("logout failed: %w", err)
	}

	if err := c.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
