package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost стоимость bcrypt для паролей пользователей
const DefaultPasswordCost = 12

// ErrPasswordMismatch returned by CheckPassword when the password does not match the hash.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword хеширует пароль с помощью bcrypt (соль встроена в хеш)
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword сравнивает пароль с bcrypt хешем.
// Сравнение хешей внутри bcrypt выполняется за постоянное время.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return fmt.Errorf("hash cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}

	return nil
}
