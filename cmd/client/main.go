package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/iudanet/gophauth/internal/client/api"
	"github.com/iudanet/gophauth/internal/client/cli"
	"github.com/iudanet/gophauth/internal/client/iocli"
	"github.com/iudanet/gophauth/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// options настройки клиента: переменные окружения, поверх них флаги
type options struct {
	ServerURL    string `env:"SERVER" envDefault:"http://localhost:8080"`
	DBPath       string `env:"CLIENT_DB" envDefault:"gophauth-client.db"`
	PasswordFile string `env:"PASSWORD_FILE"`
	Password     string `env:"-"`
	ShowVersion  bool   `env:"-"`
}

func main() {
	if err := run(os.Args[1:], iocli.NewStdio(), os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdio iocli.IO, stderr io.Writer) error {
	opts, rest, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	if opts.ShowVersion {
		printVersion(stdio)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := boltdb.New(ctx, opts.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	c := cli.New(api.NewClient(opts.ServerURL), store, stdio, cli.Passwords{
		FromFile: opts.PasswordFile,
		FromArgs: opts.Password,
	})
	return c.Run(ctx, rest)
}

func parseOptions(args []string, output io.Writer) (*options, []string, error) {
	opts := &options{}
	if err := env.ParseWithOptions(opts, env.Options{Prefix: "GOPHAUTH_"}); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("gophauth", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.StringVar(&opts.ServerURL, "server", opts.ServerURL, "Server URL")
	fs.StringVar(&opts.DBPath, "db", opts.DBPath, "Path to local session database")
	fs.StringVar(&opts.Password, "password", "", "Login password (not recommended)")
	fs.StringVar(&opts.PasswordFile, "password-file", opts.PasswordFile, "Path to file containing login password")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return opts, fs.Args(), nil
}

func printVersion(w iocli.IO) {
	w.Printf("gophauth client\n")
	w.Printf("Version:    %s\n", Version)
	w.Printf("Build Date: %s\n", BuildDate)
	w.Printf("Git Commit: %s\n", GitCommit)
}
