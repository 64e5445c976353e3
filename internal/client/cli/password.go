package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophauth/internal/validation"
	"github.com/iudanet/gophauth/pkg/api"
)

func (c *Cli) runForgotPassword(ctx context.Context, args []string) error {
	email, err := c.argOrPrompt(args, "Email: ")
	if err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	msg, err := c.apiClient.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}

	c.io.Println(msg)
	c.io.Println("Then run 'gophauth reset-password " + email + "' with the code from the email.")
	return nil
}

func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	c.io.Println("=== Reset Password ===")
	c.io.Println()

	email, err := c.argOrPrompt(args, "Email: ")
	if err != nil {
		return err
	}

	code, err := c.io.ReadInput("Reset code: ")
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	password, err := c.readNewPassword(
		fmt.Sprintf("New password (min %d chars): ", validation.MinResetPasswordLen),
		validation.ValidateResetPassword,
	)
	if err != nil {
		return err
	}

	if err := c.apiClient.ResetPassword(ctx, api.ResetPasswordRequest{
		Email:       email,
		OTPCode:     code,
		NewPassword: password,
	}); err != nil {
		return err
	}

	// Сброс отзывает сессию на сервере; локальная, если была, больше не нужна
	_ = c.store.DeleteAuth(ctx)

	c.io.Println()
	c.io.Println("✓ Password reset successfully!")
	c.io.Println("Run 'gophauth login' with the new password.")
	return nil
}

func (c *Cli) runChangePassword(ctx context.Context) error {
	c.io.Println("=== Change Password ===")
	c.io.Println()

	// Сессию проверяем до запроса паролей
	if _, err := c.loadSession(ctx); err != nil {
		return err
	}

	current, err := c.io.ReadPassword("Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	password, err := c.readNewPassword(
		fmt.Sprintf("New password (min %d chars, upper, lower, digit, symbol): ", validation.MinPasswordLen),
		validation.ValidatePassword,
	)
	if err != nil {
		return err
	}

	err = c.withSession(ctx, func(token string) error {
		return c.apiClient.ChangePassword(ctx, token, api.ChangePasswordRequest{
			CurrentPassword: current,
			NewPassword:     password,
		})
	})
	if err != nil {
		return err
	}

	if err := c.store.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Password changed successfully!")
	c.io.Println("Your session has ended. Run 'gophauth login' with the new password.")
	return nil
}
