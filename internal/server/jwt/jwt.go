// Package jwt signs and verifies the bearer tokens handed out by the server.
//
// Tokens are HS256 JWTs: integrity-protected, not encrypted. Claims must never
// carry secrets.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTokenTTL время жизни access token
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL время жизни refresh token
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	issuer = "gophauth"
)

// ErrTokenInvalid covers bad signatures, malformed tokens, wrong kinds and expired tokens.
var ErrTokenInvalid = errors.New("token invalid")

// Kind различает access и refresh токены
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims represents JWT claims
type Claims struct {
	Email string `json:"email"`
	Kind  Kind   `json:"typ"`
	gojwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, c.Subject)
	}
	return id, nil
}

// Service provides JWT token generation and validation.
// The secret is copied on construction and never mutated, so a Service
// is safe for concurrent use.
type Service struct {
	now             func() time.Time
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTTL overrides the token lifetimes. Zero values keep the defaults.
func WithTTL(access, refresh time.Duration) Option {
	return func(s *Service) {
		if access > 0 {
			s.accessTokenTTL = access
		}
		if refresh > 0 {
			s.refreshTokenTTL = refresh
		}
	}
}

// NewService creates a new JWT service.
// secret should be a cryptographically secure random value.
func NewService(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}

	s := &Service{
		secret:          append([]byte(nil), secret...),
		accessTokenTTL:  DefaultAccessTokenTTL,
		refreshTokenTTL: DefaultRefreshTokenTTL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// TTL returns the lifetime of tokens of the given kind.
func (s *Service) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return s.refreshTokenTTL
	}
	return s.accessTokenTTL
}

// Issue creates a signed token for the subject.
func (s *Service) Issue(userID int64, email string, kind Kind) (string, error) {
	if kind != KindAccess && kind != KindRefresh {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := s.now()
	claims := Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.TTL(kind))),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify parses the token and checks signature, algorithm and expiry
// against the current time.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// VerifyKind is Verify plus a check that the token was issued as kind.
func (s *Service) VerifyKind(tokenString string, kind Kind) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrTokenInvalid, kind, claims.Kind)
	}
	return claims, nil
}
