package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/storage"
)

// indexPrefix returns the key prefix "email\x00purpose\x00" of the email index.
func indexPrefix(email string, purpose models.CodePurpose) []byte {
	prefix := make([]byte, 0, len(email)+len(purpose)+2)
	prefix = append(prefix, email...)
	prefix = append(prefix, 0)
	prefix = append(prefix, purpose...)
	prefix = append(prefix, 0)
	return prefix
}

// InvalidateOutstanding consumes all unconsumed codes of (email, purpose)
func (s *Storage) InvalidateOutstanding(ctx context.Context, email string, purpose models.CodePurpose) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return invalidateCodes(tx, email, purpose)
	})
}

// CreateCode stores a new one-time code
func (s *Storage) CreateCode(ctx context.Context, code *models.OneTimeCode) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return insertCode(tx, code)
	})
}

// ReplaceOutstanding invalidates older codes and stores code in one write transaction
func (s *Storage) ReplaceOutstanding(ctx context.Context, code *models.OneTimeCode) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := invalidateCodes(tx, code.Email, code.Purpose); err != nil {
			return err
		}
		return insertCode(tx, code)
	})
}

func invalidateCodes(tx *bbolt.Tx, email string, purpose models.CodePurpose) error {
	codes := tx.Bucket(bucketCodes)
	prefix := indexPrefix(email, purpose)

	c := tx.Bucket(bucketByEmail).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		code, err := getCode(codes, k[len(prefix):])
		if err != nil {
			return err
		}
		if code.Consumed {
			continue
		}
		code.Consumed = true
		if err := putCode(codes, code); err != nil {
			return err
		}
	}
	return nil
}

func insertCode(tx *bbolt.Tx, code *models.OneTimeCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}

	if err := putCode(tx.Bucket(bucketCodes), code); err != nil {
		return err
	}
	key := append(indexPrefix(code.Email, code.Purpose), code.ID...)
	if err := tx.Bucket(bucketByEmail).Put(key, nil); err != nil {
		return fmt.Errorf("failed to index code: %w", err)
	}
	return nil
}

// FindValidCode returns the newest unconsumed, unexpired matching code
func (s *Storage) FindValidCode(ctx context.Context, email, code string, purpose models.CodePurpose, now time.Time) (*models.OneTimeCode, error) {
	var found *models.OneTimeCode

	err := s.db.View(func(tx *bbolt.Tx) error {
		codes := tx.Bucket(bucketCodes)
		prefix := indexPrefix(email, purpose)

		c := tx.Bucket(bucketByEmail).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			candidate, err := getCode(codes, k[len(prefix):])
			if err != nil {
				return err
			}
			if candidate.Code != code || !candidate.ValidAt(now) {
				continue
			}
			if found == nil || candidate.CreatedAt.After(found.CreatedAt) {
				found = candidate
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrCodeNotFound
	}

	return found, nil
}

// MarkConsumed consumes the code unless someone already did
func (s *Storage) MarkConsumed(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		codes := tx.Bucket(bucketCodes)

		code, err := getCode(codes, []byte(id))
		if err != nil {
			return err
		}
		if code.Consumed {
			return storage.ErrCodeNotFound
		}

		code.Consumed = true
		return putCode(codes, code)
	})
}

// storedCode is the on-disk form; Code is excluded from models.OneTimeCode JSON.
type storedCode struct {
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	Code      string             `json:"code"`
	Purpose   models.CodePurpose `json:"purpose"`
	Consumed  bool               `json:"consumed"`
}

func getCode(bucket *bbolt.Bucket, id []byte) (*models.OneTimeCode, error) {
	data := bucket.Get(id)
	if data == nil {
		return nil, storage.ErrCodeNotFound
	}

	var sc storedCode
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal code: %w", err)
	}

	return &models.OneTimeCode{
		ExpiresAt: sc.ExpiresAt,
		CreatedAt: sc.CreatedAt,
		ID:        sc.ID,
		Email:     sc.Email,
		Code:      sc.Code,
		Purpose:   sc.Purpose,
		Consumed:  sc.Consumed,
	}, nil
}

func putCode(bucket *bbolt.Bucket, code *models.OneTimeCode) error {
	data, err := json.Marshal(storedCode{
		ExpiresAt: code.ExpiresAt,
		CreatedAt: code.CreatedAt,
		ID:        code.ID,
		Email:     code.Email,
		Code:      code.Code,
		Purpose:   code.Purpose,
		Consumed:  code.Consumed,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal code: %w", err)
	}

	if err := bucket.Put([]byte(code.ID), data); err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}

	return nil
}
