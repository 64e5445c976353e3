package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophauth/internal/client/storage"
)

// sessionKey единственная запись бакета: клиент держит одну сессию
var sessionKey = []byte("current")

// sessionVersion формат записи; запись другой версии не читается
const sessionVersion = 1

var (
	// ErrBucketMissing возвращается, если файл создан не этим клиентом
	ErrBucketMissing = errors.New("session bucket missing")
	// ErrSessionFormat возвращается для записи неизвестного формата
	ErrSessionFormat = errors.New("unsupported session record")
)

var _ storage.AuthStorage = (*Storage)(nil)

// sessionRecord is the on-disk form of storage.AuthData.
type sessionRecord struct {
	Email        string `json:"email"`
	UserUUID     string `json:"user_uuid"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	Version      int    `json:"v"`
}

func encodeSession(auth *storage.AuthData) ([]byte, error) {
	return json.Marshal(sessionRecord{
		Email:        auth.Email,
		UserUUID:     auth.UserUUID,
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		ExpiresAt:    auth.ExpiresAt,
		Version:      sessionVersion,
	})
}

// decodeSession копирует данные: value из bbolt живёт только внутри транзакции
func decodeSession(raw []byte) (*storage.AuthData, error) {
	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionFormat, err)
	}
	if rec.Version != sessionVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSessionFormat, rec.Version)
	}
	return &storage.AuthData{
		Email:        rec.Email,
		UserUUID:     rec.UserUUID,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresAt:    rec.ExpiresAt,
	}, nil
}

// inSession runs fn on the session bucket in a read or write transaction.
func (s *Storage) inSession(writable bool, fn func(b *bbolt.Bucket) error) error {
	run := s.db.View
	if writable {
		run = s.db.Update
	}
	return run(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return ErrBucketMissing
		}
		return fn(b)
	})
}

// SaveAuth заменяет сохранённую сессию
func (s *Storage) SaveAuth(_ context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return errors.New("nil session")
	}
	raw, err := encodeSession(auth)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.inSession(true, func(b *bbolt.Bucket) error {
		return b.Put(sessionKey, raw)
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetAuth returns the saved session or storage.ErrAuthNotFound.
func (s *Storage) GetAuth(_ context.Context) (*storage.AuthData, error) {
	var auth *storage.AuthData

	err := s.inSession(false, func(b *bbolt.Bucket) error {
		raw := b.Get(sessionKey)
		if raw == nil {
			return storage.ErrAuthNotFound
		}
		var derr error
		auth, derr = decodeSession(raw)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// DeleteAuth забывает сессию. Без сессии возвращает storage.ErrAuthNotFound.
func (s *Storage) DeleteAuth(_ context.Context) error {
	return s.inSession(true, func(b *bbolt.Bucket) error {
		if b.Get(sessionKey) == nil {
			return storage.ErrAuthNotFound
		}
		return b.Delete(sessionKey)
	})
}

// IsAuthenticated reports whether a session exists and its access token
// has not expired yet. A missing session is not an error.
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	switch {
	case errors.Is(err, storage.ErrAuthNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return !auth.AccessExpired(s.now()), nil
}
