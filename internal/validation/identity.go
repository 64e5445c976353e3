package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MaxEmailLen максимальная длина email (RFC 5321)
	MaxEmailLen = 254
	// MaxNameLen максимальная длина имени и фамилии
	MaxNameLen = 100
)

// ValidateEmail проверяет, что email является одиночным адресом без display name
// Регистр не меняется: email хранится и сравнивается как есть
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email must be a valid address")
	}

	return nil
}

// ValidateName проверяет имя или фамилию пользователя
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}

	if len(value) > MaxNameLen {
		return fmt.Errorf("%s must not exceed %d characters", field, MaxNameLen)
	}

	return nil
}
