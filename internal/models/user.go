package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
	RefreshToken *string   `json:"-"`             // текущий refresh token, nil если сессии нет
	UUID         string    `json:"uuid"`          // внешний идентификатор
	Email        string    `json:"email"`         // уникальный email (case-sensitive)
	FirstName    string    `json:"first_name"`    // имя
	LastName     string    `json:"last_name"`     // фамилия
	PasswordHash string    `json:"-"`             // bcrypt хеш пароля
	ID           int64     `json:"-"`             // внутренний ключ строки
}

// View returns the public projection of the user.
func (u *User) View() UserView {
	return UserView{
		UUID:      u.UUID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserView is the public representation of a user. It never carries
// credential material.
type UserView struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// UserUpdate describes a partial update of a user row.
// Nil / false fields are left untouched.
type UserUpdate struct {
	PasswordHash *string // новый bcrypt хеш
	RefreshToken *string // новое значение refresh token, nil вместе с SetRefreshToken очищает его
	// SetRefreshToken must be true for RefreshToken to be applied.
	SetRefreshToken bool
}

// WithRefreshToken returns an update that stores token as the current session.
func WithRefreshToken(token string) UserUpdate {
	return UserUpdate{RefreshToken: &token, SetRefreshToken: true}
}

// ClearRefreshToken returns an update that revokes the current session.
func ClearRefreshToken() UserUpdate {
	return UserUpdate{SetRefreshToken: true}
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
