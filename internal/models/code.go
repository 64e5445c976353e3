package models

import "time"

// CodePurpose тег назначения одноразового кода
type CodePurpose string

const (
	// PurposePasswordReset is the only purpose issued today.
	PurposePasswordReset CodePurpose = "password_reset"
)

// OneTimeCode представляет одноразовый код (OTC)
type OneTimeCode struct {
	ExpiresAt time.Time   `json:"expires_at"` // время истечения
	CreatedAt time.Time   `json:"created_at"` // время создания
	ID        string      `json:"id"`         // UUID записи
	Email     string      `json:"email"`      // email владельца
	Code      string      `json:"-"`          // 6 цифр
	Purpose   CodePurpose `json:"purpose"`    // назначение
	Consumed  bool        `json:"consumed"`   // использован или вытеснен новым кодом
}

// ValidAt reports whether the code can still be redeemed at now.
func (c *OneTimeCode) ValidAt(now time.Time) bool {
	return !c.Consumed && c.ExpiresAt.After(now)
}
