// Package config loads server settings from GOPHAUTH_* environment variables
// and command-line flags. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinSecretLen минимальная длина секрета подписи JWT
const MinSecretLen = 32

// MinBcryptCost минимальная стоимость bcrypt
const MinBcryptCost = 12

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Code store backends.
const (
	CodeStoreSQL  = "sql"
	CodeStoreBolt = "bolt"
)

// Config holds runtime settings of the server.
// TrustProxyHeaders must stay off unless a reverse proxy overwrites
// X-Forwarded-For, otherwise clients pick their own rate limit key.
type Config struct {
	Addr                   string        `env:"ADDR" envDefault:":8080"`
	StorageDriver          string        `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN            string        `env:"DATABASE_DSN" envDefault:"gophauth.db"`
	CodeStore              string        `env:"CODE_STORE" envDefault:"sql"`
	BoltPath               string        `env:"BOLT_PATH" envDefault:"codes.bolt"`
	JWTSecret              string        `env:"JWT_SECRET"`
	RedisAddr              string        `env:"REDIS_ADDR"`
	RedisPassword          string        `env:"REDIS_PASSWORD"`
	SMTPHost               string        `env:"SMTP_HOST"`
	SMTPUser               string        `env:"SMTP_USER"`
	SMTPPassword           string        `env:"SMTP_PASSWORD"`
	SMTPFrom               string        `env:"SMTP_FROM" envDefault:"no-reply@gophauth.local"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
	AccessTokenTTL         time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL        time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	CodeTTL                time.Duration `env:"CODE_TTL" envDefault:"15m"`
	ShutdownTimeout        time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SMTPPort               int           `env:"SMTP_PORT" envDefault:"587"`
	BcryptCost             int           `env:"BCRYPT_COST" envDefault:"12"`
	RedisDB                int           `env:"REDIS_DB" envDefault:"0"`
	SMTPInsecureSkipVerify bool          `env:"SMTP_INSECURE_SKIP_VERIFY"`
	TrustProxyHeaders      bool          `env:"TRUST_PROXY_HEADERS"`
	ShowVersion            bool          `env:"-"`
	GenSecret              bool          `env:"-"`
}

// Load reads the environment, then applies args as flags.
func Load(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GOPHAUTH_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.parseFlags(args, output); err != nil {
		return nil, err
	}

	if cfg.ShowVersion || cfg.GenSecret {
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseFlags(args []string, output io.Writer) error {
	fs := flag.NewFlagSet("gophauth", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.StorageDriver, "driver", c.StorageDriver, "storage driver: sqlite | postgres")
	fs.StringVar(&c.DatabaseDSN, "db", c.DatabaseDSN, "sqlite file path or postgres DSN")
	fs.StringVar(&c.CodeStore, "code-store", c.CodeStore, "one-time code store: sql | bolt")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "redis address for rate limits (empty = in-memory)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug | info | warn | error")
	fs.BoolVar(&c.TrustProxyHeaders, "trust-proxy", c.TrustProxyHeaders, "take client IP from X-Forwarded-For (only behind a reverse proxy)")
	fs.BoolVar(&c.ShowVersion, "version", false, "show version information")
	fs.BoolVar(&c.GenSecret, "gen-secret", false, "print a random JWT secret and exit")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < MinSecretLen {
		errs = append(errs, fmt.Errorf("GOPHAUTH_JWT_SECRET must be at least %d bytes", MinSecretLen))
	}
	if c.BcryptCost < MinBcryptCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be at least %d, got %d", MinBcryptCost, c.BcryptCost))
	}

	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}

	switch c.CodeStore {
	case CodeStoreSQL:
	case CodeStoreBolt:
		if c.BoltPath == "" {
			errs = append(errs, errors.New("bolt path is required for the bolt code store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown code store %q", c.CodeStore))
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 || c.CodeTTL <= 0 {
		errs = append(errs, errors.New("token and code TTLs must be positive"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}

// SMTPEnabled reports whether one-time codes go out by email.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
