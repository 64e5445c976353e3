package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

func TestInvalidateOutstanding(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectExec(q("UPDATE one_time_codes SET consumed = TRUE WHERE email = $1 AND purpose = $2 AND NOT consumed")).
		WithArgs("alice@example.com", "password_reset").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.InvalidateOutstanding(context.Background(), "alice@example.com", models.PurposePasswordReset))
}

func TestCreateCode(t *testing.T) {
	s, mock := newStorageWithMock(t)
	expires := time.Now().Add(15 * time.Minute)

	mock.ExpectExec(q("INSERT INTO one_time_codes (id, email, code, purpose, consumed, expires_at, created_at)")).
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "000123", "password_reset", false, expires, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	code := &models.OneTimeCode{
		Email:     "alice@example.com",
		Code:      "000123",
		Purpose:   models.PurposePasswordReset,
		ExpiresAt: expires,
	}
	require.NoError(t, s.CreateCode(context.Background(), code))
	assert.NotEmpty(t, code.ID)
	assert.False(t, code.CreatedAt.IsZero())
}

func TestReplaceOutstanding(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(15 * time.Minute)
	newCode := func() *models.OneTimeCode {
		return &models.OneTimeCode{
			Email:     "alice@example.com",
			Code:      "000123",
			Purpose:   models.PurposePasswordReset,
			ExpiresAt: expires,
		}
	}

	t.Run("commit", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("SELECT pg_advisory_xact_lock(hashtext($1))")).
			WithArgs("alice@example.com:password_reset").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(q("UPDATE one_time_codes SET consumed = TRUE WHERE email = $1 AND purpose = $2 AND NOT consumed")).
			WithArgs("alice@example.com", "password_reset").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("INSERT INTO one_time_codes")).
			WithArgs(sqlmock.AnyArg(), "alice@example.com", "000123", "password_reset", false, expires, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		code := newCode()
		require.NoError(t, s.ReplaceOutstanding(ctx, code))
		assert.NotEmpty(t, code.ID)
	})

	t.Run("insert fails", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q("SELECT pg_advisory_xact_lock")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(q("UPDATE one_time_codes SET consumed = TRUE")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(q("INSERT INTO one_time_codes")).
			WillReturnError(errors.New("disk full"))
		// Старые коды не гасятся без нового
		mock.ExpectRollback()

		assert.Error(t, s.ReplaceOutstanding(ctx, newCode()))
	})
}

func TestFindValidCode(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	columns := []string{"id", "email", "code", "purpose", "consumed", "expires_at", "created_at"}

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(q("FROM one_time_codes WHERE email = $1 AND code = $2 AND purpose = $3 AND NOT consumed AND expires_at > $4")).
			WithArgs("alice@example.com", "000123", "password_reset", now).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("c-1", "alice@example.com", "000123", "password_reset", false, now.Add(time.Minute), now))

		code, err := s.FindValidCode(ctx, "alice@example.com", "000123", models.PurposePasswordReset, now)
		require.NoError(t, err)
		assert.Equal(t, "c-1", code.ID)
		assert.Equal(t, models.PurposePasswordReset, code.Purpose)
		assert.True(t, code.ValidAt(now))
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(q("FROM one_time_codes")).WillReturnError(sql.ErrNoRows)

		_, err := s.FindValidCode(ctx, "alice@example.com", "000123", models.PurposePasswordReset, now)
		assert.ErrorIs(t, err, storage.ErrCodeNotFound)
	})
}

func TestMarkConsumed(t *testing.T) {
	ctx := context.Background()

	t.Run("consumed", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(q("UPDATE one_time_codes SET consumed = TRUE WHERE id = $1 AND NOT consumed")).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.MarkConsumed(ctx, "c-1"))
	})

	t.Run("already consumed", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectExec(q("UPDATE one_time_codes SET consumed = TRUE")).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.MarkConsumed(ctx, "c-1"), storage.ErrCodeNotFound)
	})
}
