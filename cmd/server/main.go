package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophauth/internal/crypto"
	"github.com/iudanet/gophauth/internal/server"
	"github.com/iudanet/gophauth/internal/server/config"
	"github.com/iudanet/gophauth/internal/server/middleware"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load(args, os.Stderr)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion(stdout)
		return nil
	}

	if cfg.GenSecret {
		secret, err := crypto.GenerateSecretBase64(crypto.SecretSize)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, secret)
		return nil
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(middleware.NewContextHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "GophAuth server starting",
		slog.String("version", Version),
		slog.String("storage", cfg.StorageDriver),
		slog.String("code_store", cfg.CodeStore),
		slog.Bool("redis", cfg.RedisAddr != ""),
		slog.Bool("smtp", cfg.SMTPEnabled()),
	)

	app, err := server.NewApp(ctx, cfg, logger, Version)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "GophAuth Server\n")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
