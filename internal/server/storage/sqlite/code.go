package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

// execer is implemented by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InvalidateOutstanding consumes all unconsumed codes of (email, purpose)
func (s *Storage) InvalidateOutstanding(ctx context.Context, email string, purpose models.CodePurpose) error {
	return invalidateCodes(ctx, s.db, email, purpose)
}

// CreateCode stores a new one-time code
func (s *Storage) CreateCode(ctx context.Context, code *models.OneTimeCode) error {
	return insertCode(ctx, s.db, code)
}

// ReplaceOutstanding invalidates older codes and stores code in one transaction
func (s *Storage) ReplaceOutstanding(ctx context.Context, code *models.OneTimeCode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := invalidateCodes(ctx, tx, code.Email, code.Purpose); err != nil {
		return err
	}
	if err := insertCode(ctx, tx, code); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func invalidateCodes(ctx context.Context, db execer, email string, purpose models.CodePurpose) error {
	query := `
		UPDATE one_time_codes
		SET consumed = 1
		WHERE email = ? AND purpose = ? AND consumed = 0
	`

	if _, err := db.ExecContext(ctx, query, email, string(purpose)); err != nil {
		return fmt.Errorf("failed to invalidate codes: %w", err)
	}

	return nil
}

func insertCode(ctx context.Context, db execer, code *models.OneTimeCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO one_time_codes (id, email, code, purpose, consumed, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		code.ID,
		code.Email,
		code.Code,
		string(code.Purpose),
		boolToInt(code.Consumed),
		toMillis(code.ExpiresAt),
		toMillis(code.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert code: %w", err)
	}

	return nil
}

// FindValidCode returns the newest unconsumed, unexpired matching code
func (s *Storage) FindValidCode(ctx context.Context, email, code string, purpose models.CodePurpose, now time.Time) (*models.OneTimeCode, error) {
	query := `
		SELECT id, email, code, purpose, consumed, expires_at, created_at
		FROM one_time_codes
		WHERE email = ? AND code = ? AND purpose = ? AND consumed = 0 AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		otc                  models.OneTimeCode
		purposeStr           string
		consumed             int
		expiresAt, createdAt int64
	)

	err := s.db.QueryRowContext(ctx, query, email, code, string(purpose), toMillis(now)).Scan(
		&otc.ID,
		&otc.Email,
		&otc.Code,
		&purposeStr,
		&consumed,
		&expiresAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to find code: %w", err)
	}

	otc.Purpose = models.CodePurpose(purposeStr)
	otc.Consumed = consumed != 0
	otc.ExpiresAt = fromMillis(expiresAt)
	otc.CreatedAt = fromMillis(createdAt)

	return &otc, nil
}

// MarkConsumed consumes the code unless someone already did
func (s *Storage) MarkConsumed(ctx context.Context, id string) error {
	query := `UPDATE one_time_codes SET consumed = 1 WHERE id = ? AND consumed = 0`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrCodeNotFound
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
