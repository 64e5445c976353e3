package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret1234", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret1234", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	// Соль случайная: два хеша одного пароля различаются
	hash2, err := HashPassword("Sup3r$ecret1234", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("", bcrypt.MinCost)
	assert.EqualError(t, err, "password cannot be empty")
}

func TestHashPassword_DefaultCost(t *testing.T) {
	if testing.Short() {
		t.Skip("bcrypt cost 12 is slow")
	}
	hash, err := HashPassword("Sup3r$ecret1234", DefaultPasswordCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, 12)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		wantErr  error
		name     string
		hash     string
		password string
	}{
		{name: "match", hash: hash, password: "correct horse"},
		{name: "mismatch", hash: hash, password: "wrong horse", wantErr: ErrPasswordMismatch},
		{name: "empty password", hash: hash, password: "", wantErr: ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.hash, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckPassword_BadHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)

	assert.Error(t, CheckPassword("", "whatever"))
}
