package postgres

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

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Storage) InvalidateOutstanding(ctx context.Context, email string, purpose models.CodePurpose) error {
	return invalidateCodes(ctx, s.db, email, purpose)
}

func (s *Storage) CreateCode(ctx context.Context, code *models.OneTimeCode) error {
	return insertCode(ctx, s.db, code)
}

// ReplaceOutstanding runs under a transaction-scoped advisory lock on
// (email, purpose). Under READ COMMITTED two transactions would not see
// each other's insert, the lock serializes them.
func (s *Storage) ReplaceOutstanding(ctx context.Context, code *models.OneTimeCode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := code.Email + ":" + string(code.Purpose)
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := invalidateCodes(ctx, tx, code.Email, code.Purpose); err != nil {
		return err
	}
	if err := insertCode(ctx, tx, code); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func invalidateCodes(ctx context.Context, db execer, email string, purpose models.CodePurpose) error {
	query := `UPDATE one_time_codes SET consumed = TRUE
		WHERE email = $1 AND purpose = $2 AND NOT consumed`

	if _, err := db.ExecContext(ctx, query, email, string(purpose)); err != nil {
		return fmt.Errorf("db error: %w", err)
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

	query := `INSERT INTO one_time_codes (id, email, code, purpose, consumed, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := db.ExecContext(ctx, query,
		code.ID,
		code.Email,
		code.Code,
		string(code.Purpose),
		code.Consumed,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) FindValidCode(ctx context.Context, email, code string, purpose models.CodePurpose, now time.Time) (*models.OneTimeCode, error) {
	query := `SELECT id, email, code, purpose, consumed, expires_at, created_at
		FROM one_time_codes
		WHERE email = $1 AND code = $2 AND purpose = $3 AND NOT consumed AND expires_at > $4
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		otc        models.OneTimeCode
		purposeStr string
	)

	err := s.db.QueryRowContext(ctx, query, email, code, string(purpose), now).Scan(
		&otc.ID,
		&otc.Email,
		&otc.Code,
		&purposeStr,
		&otc.Consumed,
		&otc.ExpiresAt,
		&otc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCodeNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	otc.Purpose = models.CodePurpose(purposeStr)

	return &otc, nil
}

func (s *Storage) MarkConsumed(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE one_time_codes SET consumed = TRUE WHERE id = $1 AND NOT consumed`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return storage.ErrCodeNotFound
	}

	return nil
}
