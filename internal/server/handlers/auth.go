package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger    *slog.Logger
	sessions  SessionService
	accessTTL time.Duration
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, sessions SessionService, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		sessions:  sessions,
		accessTTL: accessTTL,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	res, err := h.sessions.Register(r.Context(), session.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeSessionError(w, r, h.logger, "register", err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "User registered successfully", h.authData(res))
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, "email and password are required")
		return
	}

	res, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeSessionError(w, r, h.logger, "login", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Login successful", h.authData(res))
}

// Refresh обрабатывает POST /api/v1/auth/refresh
// Ротация: старый refresh token после успешного ответа больше не действует
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	if req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, "refresh_token is required")
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeSessionError(w, r, h.logger, "refresh", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Token refreshed successfully", api.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.accessTTL.Seconds()),
	})
}

// Logout обрабатывает POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized")
		return
	}

	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		writeSessionError(w, r, h.logger, "logout", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

// ChangePassword обрабатывает POST /api/v1/auth/change-password
// Все сессии пользователя, включая текущую, завершаются
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, session.CodeUnauthorized, "Unauthorized")
		return
	}

	var req api.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	if err := h.sessions.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeSessionError(w, r, h.logger, "change password", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Password changed successfully, please log in again", nil)
}

// ForgotPassword обрабатывает POST /api/v1/auth/forgot-password
// Ответ не зависит от того, зарегистрирован ли email
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	msg, err := h.sessions.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeSessionError(w, r, h.logger, "forgot password", err)
		return
	}

	WriteSuccess(w, http.StatusOK, msg, nil)
}

// ResetPassword обрабатывает POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, r, h.logger, err)
		return
	}

	if req.Email == "" || req.OTPCode == "" {
		WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, "email and otp_code are required")
		return
	}

	if err := h.sessions.ResetPassword(r.Context(), req.Email, req.OTPCode, req.NewPassword); err != nil {
		writeSessionError(w, r, h.logger, "reset password", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) authData(res *session.AuthResult) api.AuthData {
	return api.AuthData{
		User:         toAPIUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresIn:    int64(h.accessTTL.Seconds()),
	}
}

func toAPIUser(v models.UserView) api.User {
	return api.User{
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		UUID:      v.UUID,
		Email:     v.Email,
		FirstName: v.FirstName,
		LastName:  v.LastName,
	}
}
