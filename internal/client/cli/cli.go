// Package cli implements the commands of the gophauth client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/gophauth/internal/client/api"
	"github.com/iudanet/gophauth/internal/client/iocli"
	"github.com/iudanet/gophauth/internal/client/storage"
)

// PasswordEnv переменная окружения с паролем для неинтерактивного login
const PasswordEnv = "GOPHAUTH_PASSWORD"

var (
	// ErrUnknownCommand возвращается для неизвестной команды
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotLoggedIn возвращается, если локальной сессии нет
	ErrNotLoggedIn = errors.New("not logged in, run 'gophauth login' first")
	// ErrSessionExpired возвращается, если refresh token больше не принимается
	ErrSessionExpired = errors.New("session expired, run 'gophauth login' again")
)

// Passwords источники пароля помимо интерактивного ввода
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	apiClient *api.Client
	store     storage.AuthStorage
	io        iocli.IO
	now       func() time.Time
	passwords Passwords
}

func New(apiClient *api.Client, store storage.AuthStorage, io iocli.IO, passwords Passwords) *Cli {
	return &Cli{
		apiClient: apiClient,
		store:     store,
		io:        io,
		now:       time.Now,
		passwords: passwords,
	}
}

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUnknownCommand
	}

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "forgot-password":
		return c.runForgotPassword(ctx, rest)
	case "reset-password":
		return c.runResetPassword(ctx, rest)
	case "change-password":
		return c.runChangePassword(ctx)
	case "users":
		return c.runUsers(ctx, rest)
	case "user":
		return c.runUser(ctx, rest)
	case "health":
		return c.runHealth(ctx)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// getPassword retrieves the login password with priority:
// 1. Environment variable GOPHAUTH_PASSWORD
// 2. File specified in FromFile
// 3. Command-line parameter FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// readNewPassword читает новый пароль с подтверждением
func (c *Cli) readNewPassword(prompt string, validate func(string) error) (string, error) {
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if err := validate(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// argOrPrompt возвращает первый позиционный аргумент или спрашивает значение
func (c *Cli) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	v, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return v, nil
}

func (c *Cli) PrintUsage() {
	c.io.Println("gophauth client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  gophauth [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version              Show version information")
	c.io.Println("  --server URL           Server URL (default: http://localhost:8080)")
	c.io.Println("  --db PATH              Path to local session database (default: gophauth-client.db)")
	c.io.Println("  --password PASSWORD    Login password (not recommended, use env var or file)")
	c.io.Println("  --password-file PATH   Path to file containing login password")
	c.io.Println()
	c.io.Println("Password Priority (highest to lowest):")
	c.io.Println("  1. " + PasswordEnv + " environment variable")
	c.io.Println("  2. --password-file (file path)")
	c.io.Println("  3. --password (command line)")
	c.io.Println("  4. Interactive prompt (fallback)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                      Register new user and start a session")
	c.io.Println("  login                         Login to server")
	c.io.Println("  logout                        Revoke the session and forget it locally")
	c.io.Println("  status                        Show local session status")
	c.io.Println("  forgot-password [email]       Request a password reset code")
	c.io.Println("  reset-password [email]        Set a new password using the reset code")
	c.io.Println("  change-password               Change password (ends the session)")
	c.io.Println("  users [-page N] [-limit N] [-sort created_at|email] [-order asc|desc]")
	c.io.Println("                                List users")
	c.io.Println("  user <uuid>                   Show one user")
	c.io.Println("  health                        Show server health")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  gophauth register")
	c.io.Println("  gophauth --password-file ~/.gophauth-password login")
	c.io.Println("  gophauth users -sort email -order asc -limit 20")
	c.io.Println("  gophauth --server https://auth.example.com health")
}
