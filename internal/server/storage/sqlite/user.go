package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

const userColumns = `id, uuid, email, first_name, last_name, password_hash, refresh_token, created_at, updated_at`

// sortColumns whitelist колонок для ORDER BY
var sortColumns = map[string]string{
	"created_at": "created_at",
	"email":      "email",
}

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if user.UUID == "" {
		user.UUID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	// Точность хранения: миллисекунды
	user.CreatedAt = fromMillis(toMillis(user.CreatedAt))
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (uuid, email, first_name, last_name, password_hash, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.UUID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		nullString(user.RefreshToken),
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		// Проверяем на duplicate email
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = ?`, email)
}

// GetUserByID retrieves user by internal ID
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUUID retrieves user by external UUID
func (s *Storage) GetUserByUUID(ctx context.Context, userUUID string) (*models.User, error) {
	return s.getUser(ctx, `WHERE uuid = ?`, userUUID)
}

// GetUserByIDAndRefreshToken retrieves user holding exactly this refresh token
func (s *Storage) GetUserByIDAndRefreshToken(ctx context.Context, id int64, token string) (*models.User, error) {
	if token == "" {
		return nil, storage.ErrUserNotFound
	}
	return s.getUser(ctx, `WHERE id = ? AND refresh_token = ?`, id, token)
}

func (s *Storage) getUser(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + where

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUser applies a partial update to the user row
func (s *Storage) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if update.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.SetRefreshToken {
		sets = append(sets, "refresh_token = ?")
		args = append(args, nullString(update.RefreshToken))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, toMillis(time.Now()), id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// SwapRefreshToken replaces oldToken with newToken in a single conditional UPDATE
func (s *Storage) SwapRefreshToken(ctx context.Context, id int64, oldToken, newToken string) (bool, error) {
	query := `
		UPDATE users
		SET refresh_token = ?, updated_at = ?
		WHERE id = ? AND refresh_token = ?
	`

	result, err := s.db.ExecContext(ctx, query, newToken, toMillis(time.Now()), id, oldToken)
	if err != nil {
		return false, fmt.Errorf("failed to swap refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows == 1, nil
}

// ListUsers returns one page of users ordered by the requested column
func (s *Storage) ListUsers(ctx context.Context, q models.PageQuery) ([]*models.User, int, error) {
	q = q.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if q.SortOrder == models.SortAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		userColumns, column, order, order)

	rows, err := s.db.QueryContext(ctx, query, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, q.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user                 models.User
		refreshToken         sql.NullString
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&refreshToken,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)

	return &user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
