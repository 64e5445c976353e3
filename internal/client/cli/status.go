package cli

import (
	"context"
	"errors"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	auth, err := c.loadSession(ctx)
	if errors.Is(err, ErrNotLoggedIn) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'gophauth login' to authenticate.")
		return nil
	}
	if err != nil {
		return err
	}

	expiresAt := time.Unix(auth.ExpiresAt, 0)
	remaining := expiresAt.Sub(c.now())

	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", auth.Email)
	c.io.Printf("User ID: %s\n", auth.UserUUID)
	c.io.Printf("Access token expires: %s\n", expiresAt.UTC().Format(time.RFC3339))

	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Access token has expired, it will be refreshed on the next request.")
	}

	return nil
}
