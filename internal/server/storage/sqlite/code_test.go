package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

func newTestCode(email, code string, expiresAt time.Time) *models.OneTimeCode {
	return &models.OneTimeCode{
		Email:     email,
		Code:      code,
		Purpose:   models.PurposePasswordReset,
		ExpiresAt: expiresAt,
	}
}

func TestCodeStorage_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	code := newTestCode("alice@example.com", "012345", now.Add(15*time.Minute))
	require.NoError(t, s.CreateCode(ctx, code))
	assert.NotEmpty(t, code.ID)

	tests := []struct {
		wantError error
		now       time.Time
		name      string
		email     string
		code      string
		purpose   models.CodePurpose
	}{
		{
			name:    "valid code",
			email:   "alice@example.com",
			code:    "012345",
			purpose: models.PurposePasswordReset,
			now:     now,
		},
		{
			name:      "wrong code",
			email:     "alice@example.com",
			code:      "012346",
			purpose:   models.PurposePasswordReset,
			now:       now,
			wantError: storage.ErrCodeNotFound,
		},
		{
			name:      "other email",
			email:     "bob@example.com",
			code:      "012345",
			purpose:   models.PurposePasswordReset,
			now:       now,
			wantError: storage.ErrCodeNotFound,
		},
		{
			name:      "other purpose",
			email:     "alice@example.com",
			code:      "012345",
			purpose:   models.CodePurpose("email_verification"),
			now:       now,
			wantError: storage.ErrCodeNotFound,
		},
		{
			name:      "expired",
			email:     "alice@example.com",
			code:      "012345",
			purpose:   models.PurposePasswordReset,
			now:       now.Add(16 * time.Minute),
			wantError: storage.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := s.FindValidCode(ctx, tt.email, tt.code, tt.purpose, tt.now)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, code.ID, found.ID)
			assert.Equal(t, "012345", found.Code)
			assert.False(t, found.Consumed)
			assert.Equal(t, code.ExpiresAt.UnixMilli(), found.ExpiresAt.UnixMilli())
			assert.True(t, found.ValidAt(tt.now))
		})
	}
}

func TestCodeStorage_MarkConsumed(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	code := newTestCode("alice@example.com", "111111", now.Add(time.Minute))
	require.NoError(t, s.CreateCode(ctx, code))

	require.NoError(t, s.MarkConsumed(ctx, code.ID))

	// Второй раз погасить нельзя
	assert.ErrorIs(t, s.MarkConsumed(ctx, code.ID), storage.ErrCodeNotFound)
	assert.ErrorIs(t, s.MarkConsumed(ctx, "missing"), storage.ErrCodeNotFound)

	_, err := s.FindValidCode(ctx, "alice@example.com", "111111", models.PurposePasswordReset, now)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_InvalidateOutstanding(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	first := newTestCode("alice@example.com", "222222", now.Add(time.Minute))
	other := newTestCode("bob@example.com", "333333", now.Add(time.Minute))
	require.NoError(t, s.CreateCode(ctx, first))
	require.NoError(t, s.CreateCode(ctx, other))

	require.NoError(t, s.InvalidateOutstanding(ctx, "alice@example.com", models.PurposePasswordReset))

	second := newTestCode("alice@example.com", "444444", now.Add(time.Minute))
	require.NoError(t, s.CreateCode(ctx, second))

	_, err := s.FindValidCode(ctx, "alice@example.com", "222222", models.PurposePasswordReset, now)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)

	found, err := s.FindValidCode(ctx, "alice@example.com", "444444", models.PurposePasswordReset, now)
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	// Коды другого пользователя не затронуты
	_, err = s.FindValidCode(ctx, "bob@example.com", "333333", models.PurposePasswordReset, now)
	assert.NoError(t, err)
}

func TestCodeStorage_ReplaceOutstanding(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Now()
	other := newTestCode("bob@example.com", "555555", now.Add(time.Minute))
	require.NoError(t, s.CreateCode(ctx, other))

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := newTestCode("alice@example.com", fmt.Sprintf("%06d", i), now.Add(time.Minute))
			assert.NoError(t, s.ReplaceOutstanding(ctx, code))
		}(i)
	}
	wg.Wait()

	// Из параллельных выдач действителен ровно один код
	valid := 0
	for i := 0; i < workers; i++ {
		_, err := s.FindValidCode(ctx, "alice@example.com", fmt.Sprintf("%06d", i), models.PurposePasswordReset, now)
		if err == nil {
			valid++
			continue
		}
		require.ErrorIs(t, err, storage.ErrCodeNotFound)
	}
	assert.Equal(t, 1, valid)

	_, err := s.FindValidCode(ctx, "bob@example.com", "555555", models.PurposePasswordReset, now)
	assert.NoError(t, err)
}
