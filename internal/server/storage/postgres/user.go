package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

const userColumns = `id, uuid, email, first_name, last_name, password_hash, refresh_token, created_at, updated_at`

var sortColumns = map[string]string{
	"created_at": "created_at",
	"email":      "email",
}

// CreateUser inserts the user and fills ID and timestamps from the database.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if user.UUID == "" {
		user.UUID = uuid.NewString()
	}

	query := `INSERT INTO users (uuid, email, first_name, last_name, password_hash, refresh_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		user.UUID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		nullString(user.RefreshToken),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, email)
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *Storage) GetUserByUUID(ctx context.Context, userUUID string) (*models.User, error) {
	if _, err := uuid.Parse(userUUID); err != nil {
		// иначе postgres ответит ошибкой приведения типа
		return nil, storage.ErrUserNotFound
	}
	return s.getUser(ctx, `WHERE uuid = $1`, userUUID)
}

func (s *Storage) GetUserByIDAndRefreshToken(ctx context.Context, id int64, token string) (*models.User, error) {
	if token == "" {
		return nil, storage.ErrUserNotFound
	}
	return s.getUser(ctx, `WHERE id = $1 AND refresh_token = $2`, id, token)
}

func (s *Storage) getUser(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ` + where

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateUser applies a partial update in one statement.
func (s *Storage) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if update.PasswordHash != nil {
		args = append(args, *update.PasswordHash)
		sets = append(sets, "password_hash = $"+strconv.Itoa(len(args)))
	}
	if update.SetRefreshToken {
		args = append(args, nullString(update.RefreshToken))
		sets = append(sets, "refresh_token = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// SwapRefreshToken is a compare-and-swap on refresh_token.
func (s *Storage) SwapRefreshToken(ctx context.Context, id int64, oldToken, newToken string) (bool, error) {
	query := `UPDATE users SET refresh_token = $1, updated_at = now()
		WHERE id = $2 AND refresh_token = $3`

	result, err := s.db.ExecContext(ctx, query, newToken, id, oldToken)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return rows == 1, nil
}

// ListUsers returns one page of users and the total count.
func (s *Storage) ListUsers(ctx context.Context, q models.PageQuery) ([]*models.User, int, error) {
	q = q.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if q.SortOrder == models.SortAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`,
		userColumns, column, order, order)

	rows, err := s.db.QueryContext(ctx, query, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0, q.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return users, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		refreshToken sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}

	return &user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
