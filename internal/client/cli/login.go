package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophauth/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	data, err := c.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	// Новый login вытесняет предыдущую сессию на сервере
	if err := c.saveSession(ctx, data); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", data.User.Email)
	c.io.Printf("Access token expires in: %d seconds\n", data.ExpiresIn)

	return nil
}
