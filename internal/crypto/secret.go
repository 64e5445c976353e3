package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretSize размер секрета подписи токенов в байтах
const SecretSize = 32

// GenerateSecret генерирует криптографически случайный секрет указанного размера
func GenerateSecret(size int) ([]byte, error) {
	if size <= 0 {
		size = SecretSize
	}

	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}

	return secret, nil
}

// GenerateSecretBase64 генерирует секрет и возвращает его в Base64
func GenerateSecretBase64(size int) (string, error) {
	secret, err := GenerateSecret(size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(secret), nil
}
