package validation

import (
	"fmt"
	"unicode"
)

const (
	// MinPasswordLen минимальная длина пароля для регистрации и смены пароля
	MinPasswordLen = 12
	// MinResetPasswordLen минимальная длина пароля при сбросе по одноразовому коду
	MinResetPasswordLen = 6
	// MaxPasswordLen bcrypt игнорирует всё после 72 байт
	MaxPasswordLen = 72
)

// ValidatePassword проверяет пароль по полной политике:
// минимум 12 символов, заглавная и строчная буквы, цифра и спецсимвол.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len([]rune(password)) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return fmt.Errorf("password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}

	return nil
}

// ValidateResetPassword проверяет пароль, заданный через сброс по коду.
// Политика здесь мягче, чем у ValidatePassword: только минимальная длина.
func ValidateResetPassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len([]rune(password)) < MinResetPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinResetPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}
