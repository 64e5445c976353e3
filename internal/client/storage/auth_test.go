package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthData_AccessExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name      string
		expiresAt int64
		expected  bool
	}{
		{name: "future", expiresAt: now.Unix() + 60, expected: false},
		{name: "exactly now", expiresAt: now.Unix(), expected: true},
		{name: "past", expiresAt: now.Unix() - 1, expected: true},
		{name: "zero", expiresAt: 0, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &AuthData{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expected, a.AccessExpired(now))
		})
	}
}
