package handlers

import (
	"context"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/session"
)

//go:generate moq -out session_mock.go . SessionService

// SessionService is the part of session.Manager the handlers use.
type SessionService interface {
	Register(ctx context.Context, in session.RegisterInput) (*session.AuthResult, error)
	Login(ctx context.Context, email string, password string) (*session.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, currentPassword string, newPassword string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email string, code string, newPassword string) error
	GetUser(ctx context.Context, userUUID string) (models.UserView, error)
	ListUsers(ctx context.Context, q models.PageQuery) (models.Page[models.UserView], error)
}

var _ SessionService = (*session.Manager)(nil)
