package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophauth/internal/models"
)

// CodeStorage defines interface for one-time code persistence.
// Expired codes are never purged here; expiry is checked on lookup.
type CodeStorage interface {
	// InvalidateOutstanding marks every unconsumed code of (email, purpose) as consumed
	InvalidateOutstanding(ctx context.Context, email string, purpose models.CodePurpose) error

	// CreateCode stores a new code; code.ID is generated if empty
	CreateCode(ctx context.Context, code *models.OneTimeCode) error

	// ReplaceOutstanding invalidates every unconsumed code of
	// (code.Email, code.Purpose) and stores code, atomically.
	// Concurrent calls for one email leave exactly one valid code.
	ReplaceOutstanding(ctx context.Context, code *models.OneTimeCode) error

	// FindValidCode returns the unconsumed code matching (email, code, purpose)
	// whose expiry is after now
	// Returns ErrCodeNotFound if there is none
	FindValidCode(ctx context.Context, email, code string, purpose models.CodePurpose, now time.Time) (*models.OneTimeCode, error)

	// MarkConsumed consumes the code if it is still unconsumed
	// Returns ErrCodeNotFound if it was already consumed or doesn't exist
	MarkConsumed(ctx context.Context, id string) error
}

// Pinger is implemented by storages that can check their backend.
type Pinger interface {
	Ping(ctx context.Context) error
}
