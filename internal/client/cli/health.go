package cli

import (
	"context"
)

func (c *Cli) runHealth(ctx context.Context) error {
	h, err := c.apiClient.Health(ctx)
	if h != nil {
		c.io.Printf("Status: %s\n", h.Status)
		c.io.Printf("Storage: %s\n", h.Storage)
		if h.Version != "" {
			c.io.Printf("Version: %s\n", h.Version)
		}
	}
	return err
}
