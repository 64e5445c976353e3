package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophauth/internal/client/storage"
)

func openSessionStore(t *testing.T) *Storage {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func aliceSession(expiresAt time.Time) *storage.AuthData {
	return &storage.AuthData{
		Email:        "alice@example.com",
		UserUUID:     "5d0c7a4e-0000-4000-8000-000000000001",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiresAt.Unix(),
	}
}

func TestStorage_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openSessionStore(t)
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }

	_, err := store.GetAuth(ctx)
	require.ErrorIs(t, err, storage.ErrAuthNotFound)

	ok, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no session is not an error")

	session := aliceSession(now.Add(15 * time.Minute))
	require.NoError(t, store.SaveAuth(ctx, session))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	ok, err = store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Access token истёк ровно в ExpiresAt, refresh token ещё есть
	now = now.Add(15 * time.Minute)
	ok, err = store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.DeleteAuth(ctx))
	_, err = store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
	assert.ErrorIs(t, store.DeleteAuth(ctx), storage.ErrAuthNotFound)
}

func TestStorage_SaveAuth_RotatesTokens(t *testing.T) {
	ctx := context.Background()
	store := openSessionStore(t)

	first := aliceSession(time.Now().Add(time.Minute))
	require.NoError(t, store.SaveAuth(ctx, first))

	rotated := *first
	rotated.AccessToken = "access-2"
	rotated.RefreshToken = "refresh-2"
	require.NoError(t, store.SaveAuth(ctx, &rotated))

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", got.RefreshToken)
	assert.Equal(t, "access-2", got.AccessToken)

	assert.Error(t, store.SaveAuth(ctx, nil))
}

func TestStorage_SessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveAuth(ctx, aliceSession(time.Now().Add(time.Hour))))
	require.NoError(t, store.Close())

	store, err = New(ctx, path)
	require.NoError(t, err)
	defer func() { assert.NoError(t, store.Close()) }()

	got, err := store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", got.RefreshToken)
}

func TestStorage_BadRecords(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{not json"},
		{name: "unknown version", raw: `{"email":"alice@example.com","refresh_token":"r","v":2}`},
		{name: "no version", raw: `{"email":"alice@example.com","refresh_token":"r"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openSessionStore(t)
			require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
				return tx.Bucket(bucketSession).Put(sessionKey, []byte(tt.raw))
			}))

			_, err := store.GetAuth(ctx)
			assert.ErrorIs(t, err, ErrSessionFormat)
			assert.NotErrorIs(t, err, storage.ErrAuthNotFound)

			_, err = store.IsAuthenticated(ctx)
			assert.ErrorIs(t, err, ErrSessionFormat)
		})
	}
}

func TestStorage_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := openSessionStore(t)
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketSession)
	}))

	assert.ErrorIs(t, store.SaveAuth(ctx, aliceSession(time.Now())), ErrBucketMissing)
	_, err := store.GetAuth(ctx)
	assert.ErrorIs(t, err, ErrBucketMissing)
	assert.ErrorIs(t, store.DeleteAuth(ctx), ErrBucketMissing)
}
