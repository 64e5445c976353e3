package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/gophauth/internal/server/config"
	"github.com/iudanet/gophauth/internal/server/handlers"
	"github.com/iudanet/gophauth/internal/server/jwt"
	"github.com/iudanet/gophauth/internal/server/notify"
	"github.com/iudanet/gophauth/internal/server/ratelimit"
	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/internal/server/storage"
	"github.com/iudanet/gophauth/internal/server/storage/boltdb"
	"github.com/iudanet/gophauth/internal/server/storage/postgres"
	"github.com/iudanet/gophauth/internal/server/storage/sqlite"
)

const (
	// resetAttemptLimit неудачных попыток сброса на email за resetAttemptWindow
	resetAttemptLimit  = 5
	resetAttemptWindow = 15 * time.Minute

	readHeaderTimeout = 5 * time.Second
	memoryCleanup     = time.Minute
)

// backingStore is what every SQL storage provides.
type backingStore interface {
	storage.UserStorage
	storage.CodeStorage
	storage.Pinger
	io.Closer
}

// App holds the wired server and the resources it must release.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	manager *session.Manager
	closers []func() error
}

// NewApp opens storage, builds the session manager and the router.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (_ *App, err error) {
	app := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)
	pingers := []storage.Pinger{store}

	var codes storage.CodeStorage = store
	if cfg.CodeStore == config.CodeStoreBolt {
		bolt, berr := boltdb.New(ctx, cfg.BoltPath)
		if berr != nil {
			return nil, fmt.Errorf("failed to open bolt code store: %w", berr)
		}
		app.closers = append(app.closers, bolt.Close)
		codes = bolt
		pingers = append(pingers, bolt)
	}

	counters, err := app.openCounters(ctx)
	if err != nil {
		return nil, err
	}
	if p, ok := counters.(storage.Pinger); ok {
		pingers = append(pingers, p)
	}

	secret := []byte(cfg.JWTSecret)
	codec, err := jwt.NewService(secret, jwt.WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	manager, err := session.NewManager(store, codes, codec, app.notifier(), logger,
		session.Config{BcryptCost: cfg.BcryptCost, CodeTTL: cfg.CodeTTL},
		session.WithAttemptLimiter(ratelimit.New(counters, "reset-attempts", resetAttemptLimit, resetAttemptWindow)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}
	app.manager = manager

	perMinute := func(prefix string, n int) *ratelimit.Limiter {
		return ratelimit.New(counters, prefix, n, time.Minute)
	}
	router := NewRouter(logger, Routes{
		Auth:          handlers.NewAuthHandler(logger, manager, codec.TTL(jwt.KindAccess)),
		Users:         handlers.NewUsersHandler(logger, manager),
		Health:        handlers.NewHealthHandler(logger, version, pingers...),
		Authenticator: manager,
		Limits: RouteLimits{
			Register:       perMinute("register", 5),
			Login:          perMinute("login", 5),
			Refresh:        perMinute("refresh", 10),
			ForgotPassword: perMinute("forgot-password", 3),
			ResetPassword:  perMinute("reset-password", 5),
			ChangePassword: perMinute("change-password", 5),

			TrustProxyHeaders: cfg.TrustProxyHeaders,
		},
	})

	app.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config) (backingStore, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return s, nil
	}
}

// openCounters returns the rate limit counter store: Redis when configured,
// process memory otherwise.
func (a *App) openCounters(ctx context.Context) (ratelimit.Store, error) {
	if a.cfg.RedisAddr == "" {
		mem := ratelimit.NewMemoryStore(memoryCleanup)
		a.closers = append(a.closers, func() error { mem.Stop(); return nil })
		return mem, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	a.closers = append(a.closers, client.Close)

	rs := ratelimit.NewRedisStore(client)
	if err := rs.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rs, nil
}

// notifier returns the SMTP mailer when configured. Codes go to the log only
// when there is no SMTP server at all: a failed send is reported, not logged
// with the code.
func (a *App) notifier() session.Notifier {
	if !a.cfg.SMTPEnabled() {
		return notify.NewLogSink(a.logger)
	}
	mailer := notify.NewMailer(a.cfg.SMTPHost, a.cfg.SMTPPort, a.cfg.SMTPUser, a.cfg.SMTPPassword, a.cfg.SMTPFrom)
	mailer.InsecureSkipVerify = a.cfg.SMTPInsecureSkipVerify
	return mailer
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.InfoContext(ctx, "Starting HTTP server", slog.String("addr", a.cfg.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down server")
	case err := <-errCh:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown failed", slog.Any("error", err))
	}

	// Дожидаемся отправки уже выданных кодов
	a.manager.Wait()
	a.close()

	a.logger.Info("Server stopped")
	return runErr
}

// Close releases resources without serving. Used when Run is never called.
func (a *App) Close() {
	if a.manager != nil {
		a.manager.Wait()
	}
	a.close()
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to release resource", slog.Any("error", err))
		}
	}
	a.closers = nil
}
