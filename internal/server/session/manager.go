// Package session owns the credential lifecycle: registration, login,
// refresh-token rotation, logout and the two password replacement flows.
//
// A user is Anonymous until a token pair is issued, Authenticated while a
// refresh token is stored, and Revoked once it is cleared. Revoked is not
// terminal: a new login stores a fresh token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/gophauth/internal/crypto"
	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/jwt"
	"github.com/iudanet/gophauth/internal/server/storage"
)

const (
	// DefaultCodeTTL время жизни кода сброса пароля
	DefaultCodeTTL = 15 * time.Minute
	// DefaultNotifyTimeout bounds a single delivery attempt.
	DefaultNotifyTimeout = 30 * time.Second

	// ForgotPasswordMessage is returned whether or not the email is registered.
	ForgotPasswordMessage = "If the email exists, an OTP has been sent"
)

// TokenCodec issues and verifies signed bearer tokens.
type TokenCodec interface {
	Issue(userID int64, email string, kind jwt.Kind) (string, error)
	VerifyKind(token string, kind jwt.Kind) (*jwt.Claims, error)
}

// Notifier delivers one-time codes. Delivery is best effort.
type Notifier interface {
	SendOneTimeCode(ctx context.Context, email, code string) error
}

// AttemptLimiter counts reset attempts per email. Allow must count and
// compare in one step.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// Config holds tunables of the manager. Zero values fall back to defaults.
type Config struct {
	BcryptCost    int
	CodeTTL       time.Duration
	NotifyTimeout time.Duration
}

// RegisterInput is the payload of Register.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User   models.UserView  `json:"user"`
	Tokens models.TokenPair `json:"tokens"`
}

// Manager implements the session state machine on top of the stores.
// It is safe for concurrent use.
type Manager struct {
	users     storage.UserStorage
	codes     storage.CodeStorage
	tokens    TokenCodec
	notifier  Notifier
	attempts  AttemptLimiter
	logger    *slog.Logger
	now       func() time.Time
	dummyHash string
	cfg       Config
	wg        sync.WaitGroup
}

// Option настраивает Manager
type Option func(*Manager)

// WithAttemptLimiter enables the per-email reset attempt counter.
func WithAttemptLimiter(l AttemptLimiter) Option {
	return func(m *Manager) { m.attempts = l }
}

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager.
func NewManager(
	users storage.UserStorage,
	codes storage.CodeStorage,
	tokens TokenCodec,
	notifier Notifier,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) (*Manager, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = crypto.DefaultPasswordCost
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = DefaultCodeTTL
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}

	// Хеш для сравнения при неизвестном email, чтобы время ответа не выдавало наличие аккаунта
	dummy, err := crypto.HashPassword("not-a-real-password", cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	m := &Manager{
		users:     users,
		codes:     codes,
		tokens:    tokens,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Wait blocks until all in-flight notifications finish.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Register creates a user and opens its first session.
//
// Creating the user and storing its refresh token are two writes. If the
// second one fails the user exists without a session and must log in.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegister(in); err != nil {
		return nil, invalidInput(err)
	}

	_, err := m.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, storageError("get user", err)
	}

	hash, err := crypto.HashPassword(in.Password, m.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrConflict
		}
		return nil, storageError("create user", err)
	}

	pair, err := m.openSession(ctx, user)
	if err != nil {
		m.logger.ErrorContext(ctx, "User created without session",
			slog.String("user_uuid", user.UUID),
			slog.Any("error", err),
		)
		return nil, err
	}

	m.logger.InfoContext(ctx, "User registered", slog.String("user_uuid", user.UUID))

	return &AuthResult{User: user.View(), Tokens: pair}, nil
}

// Login checks the password and replaces any existing session.
// Unknown email and wrong password are indistinguishable.
func (m *Manager) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			_ = crypto.CheckPassword(m.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("get user", err)
	}

	if err := m.checkPassword(user, password); err != nil {
		return nil, err
	}

	pair, err := m.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "User logged in", slog.String("user_uuid", user.UUID))

	return &AuthResult{User: user.View(), Tokens: pair}, nil
}

// Refresh rotates the refresh token. The presented token must be the one
// currently stored; it is unusable afterwards.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := m.tokens.VerifyKind(refreshToken, jwt.KindRefresh)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	user, err := m.users.GetUserByIDAndRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.TokenPair{}, ErrInvalidRefreshToken
		}
		return models.TokenPair{}, storageError("get user", err)
	}

	pair, err := m.issuePair(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	swapped, err := m.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, storageError("swap refresh token", err)
	}
	if !swapped {
		// Параллельный refresh или logout успел раньше
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	return pair, nil
}

// Logout clears the stored refresh token. It is idempotent.
func (m *Manager) Logout(ctx context.Context, userID int64) error {
	if err := m.users.UpdateUser(ctx, userID, models.ClearRefreshToken()); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil
		}
		return storageError("clear refresh token", err)
	}

	m.logger.InfoContext(ctx, "User logged out", slog.Int64("user_id", userID))
	return nil
}

// ChangePassword replaces the password of an authenticated user and revokes
// every session, including the caller's.
func (m *Manager) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}
		return storageError("get user", err)
	}

	if err := m.checkPassword(user, currentPassword); err != nil {
		return err
	}

	if err := validatePassword(newPassword); err != nil {
		return invalidInput(err)
	}
	if newPassword == currentPassword {
		return invalidInput(errors.New("new password must differ from the current one"))
	}

	if err := m.replacePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	// Код сброса, выданный до смены пароля, больше не действует
	if err := m.codes.InvalidateOutstanding(ctx, user.Email, models.PurposePasswordReset); err != nil {
		m.logger.WarnContext(ctx, "Failed to invalidate reset codes", slog.Any("error", err))
	}

	m.logger.InfoContext(ctx, "Password changed", slog.String("user_uuid", user.UUID))
	return nil
}

// ForgotPassword issues a reset code when email is registered. The result
// is the same whether or not it is.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := validateEmail(email); err != nil {
		return "", invalidInput(err)
	}

	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			m.logger.DebugContext(ctx, "Password reset requested for unknown email")
			return ForgotPasswordMessage, nil
		}
		return "", storageError("get user", err)
	}

	value, err := crypto.GenerateOTC()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := m.now()
	code := &models.OneTimeCode{
		Email:     user.Email,
		Code:      value,
		Purpose:   models.PurposePasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.CodeTTL),
	}
	// Новый код вытесняет все ранее выданные
	if err := m.codes.ReplaceOutstanding(ctx, code); err != nil {
		return "", storageError("replace code", err)
	}

	m.notify(ctx, user.Email, value)

	return ForgotPasswordMessage, nil
}

// notify delivers the code in the background. The delivery outlives the
// request but not NotifyTimeout.
func (m *Manager) notify(ctx context.Context, email, code string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.NotifyTimeout)
		defer cancel()

		if err := m.notifier.SendOneTimeCode(sendCtx, email, code); err != nil {
			m.logger.ErrorContext(sendCtx, "Failed to deliver one-time code", slog.Any("error", err))
			return
		}
		m.logger.InfoContext(sendCtx, "One-time code delivered")
	}()
}

// ResetPassword redeems a reset code, replaces the password and revokes
// every session.
func (m *Manager) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validateResetPassword(newPassword); err != nil {
		return invalidInput(err)
	}

	// Попытка списывается до поиска кода, успешный сброс обнуляет счётчик
	if !m.takeAttempt(ctx, email) {
		return ErrTooManyAttempts
	}

	if !crypto.IsOTC(code) {
		return ErrInvalidOrExpiredCode
	}

	otc, err := m.codes.FindValidCode(ctx, email, code, models.PurposePasswordReset, m.now())
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return storageError("find code", err)
	}

	user, err := m.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}
		return storageError("get user", err)
	}

	// Гасим код до смены пароля: из двух параллельных запросов пройдёт один
	if err := m.codes.MarkConsumed(ctx, otc.ID); err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return storageError("consume code", err)
	}

	if err := m.replacePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	if m.attempts != nil {
		if err := m.attempts.Reset(ctx, email); err != nil {
			m.logger.WarnContext(ctx, "Failed to reset attempt counter", slog.Any("error", err))
		}
	}

	m.logger.InfoContext(ctx, "Password reset", slog.String("user_uuid", user.UUID))
	return nil
}

// GetUser returns the public view of the user with the given uuid.
func (m *Manager) GetUser(ctx context.Context, userUUID string) (models.UserView, error) {
	user, err := m.users.GetUserByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.UserView{}, ErrNotFound
		}
		return models.UserView{}, storageError("get user", err)
	}
	return user.View(), nil
}

// ListUsers returns one page of public user views.
func (m *Manager) ListUsers(ctx context.Context, q models.PageQuery) (models.Page[models.UserView], error) {
	q = q.Normalize()

	users, total, err := m.users.ListUsers(ctx, q)
	if err != nil {
		return models.Page[models.UserView]{}, storageError("list users", err)
	}

	items := make([]models.UserView, 0, len(users))
	for _, u := range users {
		items = append(items, u.View())
	}

	return models.Page[models.UserView]{Items: items, Meta: models.NewPageMeta(q, total)}, nil
}

// Authenticate verifies an access token. Access tokens are stateless and stay
// valid until they expire, even after logout.
func (m *Manager) Authenticate(_ context.Context, accessToken string) (*jwt.Claims, error) {
	claims, err := m.tokens.VerifyKind(accessToken, jwt.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// openSession issues a pair and stores its refresh token, replacing any other.
func (m *Manager) openSession(ctx context.Context, user *models.User) (models.TokenPair, error) {
	pair, err := m.issuePair(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := m.users.UpdateUser(ctx, user.ID, models.WithRefreshToken(pair.RefreshToken)); err != nil {
		return models.TokenPair{}, storageError("store refresh token", err)
	}

	return pair, nil
}

func (m *Manager) issuePair(user *models.User) (models.TokenPair, error) {
	access, err := m.tokens.Issue(user.ID, user.Email, jwt.KindAccess)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := m.tokens.Issue(user.ID, user.Email, jwt.KindRefresh)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) checkPassword(user *models.User, password string) error {
	if err := crypto.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}

// replacePassword stores a new hash and clears the refresh token in one update.
func (m *Manager) replacePassword(ctx context.Context, userID int64, password string) error {
	hash, err := crypto.HashPassword(password, m.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	update := models.ClearRefreshToken()
	update.PasswordHash = &hash
	if err := m.users.UpdateUser(ctx, userID, update); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return ErrNotFound
		}
		return storageError("update password", err)
	}

	return nil
}

// takeAttempt spends one attempt for email. It fails open when the counter
// backend is down.
func (m *Manager) takeAttempt(ctx context.Context, email string) bool {
	if m.attempts == nil {
		return true
	}
	allowed, err := m.attempts.Allow(ctx, email)
	if err != nil {
		m.logger.WarnContext(ctx, "Attempt counter unavailable", slog.Any("error", err))
		return true
	}
	return allowed
}
