// Package api is the HTTP client of the gophauth server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/gophauth/pkg/api"
)

// ErrUnauthorized возвращается на 401 от сервера
var ErrUnauthorized = errors.New("unauthorized")

// APIError ошибка из конверта ответа сервера
type APIError struct {
	Code    string // стабильный код ошибки, например INVALID_CREDENTIALS
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d %s): %s", e.Status, e.Code, e.Message)
}

// Unwrap позволяет errors.Is(err, ErrUnauthorized)
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// codeUnauthorized код, которым сервер отклоняет bearer token
const codeUnauthorized = "UNAUTHORIZED"

// IsTokenRejected reports whether err is a 401 caused by the access token
// itself, not by the credentials in the request body.
func IsTokenRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Status == http.StatusUnauthorized &&
		apiErr.Code == codeUnauthorized
}

// envelope is api.Response with the payload left undecoded.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Success bool            `json:"success"`
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthData, error) {
	var data api.AuthData
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", "", req, &data); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &data, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthData, error) {
	var data api.AuthData
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &data); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &data, nil
}

// Refresh обменивает refresh token на новую пару токенов
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	var data api.TokenResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/refresh", "", req, &data); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &data, nil
}

// Logout отзывает текущую сессию
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ChangePassword меняет пароль; сервер при этом отзывает сессию
func (c *Client) ChangePassword(ctx context.Context, accessToken string, req api.ChangePasswordRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/change-password", accessToken, req, nil); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// ForgotPassword запрашивает код сброса. Возвращает сообщение сервера,
// оно одинаково для известных и неизвестных email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	msg, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/forgot-password", "", api.ForgotPasswordRequest{Email: email}, nil)
	if err != nil {
		return "", fmt.Errorf("forgot password request failed: %w", err)
	}
	return msg, nil
}

// ResetPassword устанавливает новый пароль по одноразовому коду
func (c *Client) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/reset-password", "", req, nil); err != nil {
		return fmt.Errorf("reset password request failed: %w", err)
	}
	return nil
}

// ListOptions параметры постраничного списка пользователей.
// Нулевые значения не передаются, сервер подставляет значения по умолчанию.
type ListOptions struct {
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

func (o ListOptions) query() string {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.SortBy != "" {
		v.Set("sort_by", o.SortBy)
	}
	if o.SortOrder != "" {
		v.Set("sort_order", o.SortOrder)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListUsers возвращает страницу пользователей
func (c *Client) ListUsers(ctx context.Context, accessToken string, opts ListOptions) (*api.UserList, error) {
	var data api.UserList
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/users"+opts.query(), accessToken, nil, &data); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return &data, nil
}

// GetUser возвращает пользователя по UUID
func (c *Client) GetUser(ctx context.Context, accessToken, uuid string) (*api.User, error) {
	var data api.User
	path := "/api/v1/users/" + url.PathEscape(uuid)
	if _, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &data); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &data, nil
}

// Health возвращает состояние сервера. При деградации хранилища
// возвращается и payload, и ошибка.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var data api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil, &data); err != nil {
		if data.Status != "" {
			return &data, fmt.Errorf("health request failed: %w", err)
		}
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &data, nil
}

// doRequest выполняет HTTP запрос, разбирает конверт и декодирует data в result.
// Возвращает message из конверта.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) (string, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// data декодируем и для ошибок: health отдаёт статус вместе с 503
	if result != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return "", fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return "", &APIError{Status: resp.StatusCode, Code: env.Error, Message: env.Message}
	}

	return env.Message, nil
}
