package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophauth/internal/validation"
	"github.com/iudanet/gophauth/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	firstName, err := c.io.ReadInput("First name: ")
	if err != nil {
		return fmt.Errorf("failed to read first name: %w", err)
	}
	lastName, err := c.io.ReadInput("Last name: ")
	if err != nil {
		return fmt.Errorf("failed to read last name: %w", err)
	}

	password, err := c.readNewPassword(
		fmt.Sprintf("Password (min %d chars, upper, lower, digit, symbol): ", validation.MinPasswordLen),
		validation.ValidatePassword,
	)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering user...")

	data, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, data); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", data.User.UUID)
	c.io.Printf("Email: %s\n", data.User.Email)
	c.io.Println("You are now logged in.")

	return nil
}
