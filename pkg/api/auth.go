// Package api holds the JSON request and response bodies of the HTTP API.
package api

import "time"

// Response общий конверт всех ответов
type Response struct {
	Data      any    `json:"data,omitempty"`  // полезная нагрузка
	Message   string `json:"message"`         // человекочитаемое сообщение
	Error     string `json:"error,omitempty"` // стабильный код ошибки (CONFLICT, INVALID_CREDENTIALS, ...)
	Timestamp string `json:"timestamp"`       // RFC3339
	Success   bool   `json:"success"`         // признак успеха
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest представляет запрос на обновление токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest запрашивает код сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest сбрасывает пароль по одноразовому коду
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTPCode     string `json:"otp_code"` // 6 цифр
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest меняет пароль аутентифицированного пользователя
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// User is the public representation of a user.
type User struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// AuthData is the payload of register and login responses.
type AuthData struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // JWT refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
}

// PageMeta описывает метаданные страницы
type PageMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// UserList is the payload of GET /api/v1/users.
type UserList struct {
	Items []User   `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Storage string `json:"storage"`
}
