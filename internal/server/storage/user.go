package storage

import (
	"context"

	"github.com/iudanet/gophauth/internal/models"
)

// UserStorage defines interface for user credential persistence.
// Absence is reported with ErrUserNotFound; any other error is an I/O failure.
type UserStorage interface {
	// CreateUser creates a new user and fills user.ID, CreatedAt and UpdatedAt
	// Returns ErrUserAlreadyExists if email already exists
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email (exact, case-sensitive match)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by internal ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUUID retrieves user by external UUID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUUID(ctx context.Context, uuid string) (*models.User, error)

	// GetUserByIDAndRefreshToken retrieves user only if token is its current refresh token
	// Returns ErrUserNotFound otherwise
	GetUserByIDAndRefreshToken(ctx context.Context, id int64, token string) (*models.User, error)

	// UpdateUser applies a partial update to a single user row atomically
	// Returns ErrUserNotFound if user doesn't exist
	UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error

	// SwapRefreshToken replaces the refresh token only if the stored value equals oldToken.
	// Returns false if another writer changed or cleared it first.
	SwapRefreshToken(ctx context.Context, id int64, oldToken, newToken string) (bool, error)

	// ListUsers returns a page of users and the total number of users
	ListUsers(ctx context.Context, query models.PageQuery) ([]*models.User, int, error)
}
