package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/pkg/api"
)

// UsersHandler отдаёт публичные данные пользователей
type UsersHandler struct {
	logger   *slog.Logger
	sessions SessionService
}

// NewUsersHandler создает новый handler пользователей
func NewUsersHandler(logger *slog.Logger, sessions SessionService) *UsersHandler {
	return &UsersHandler{logger: logger, sessions: sessions}
}

// List обрабатывает GET /api/v1/users?page=&limit=&sort_by=&sort_order=
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parsePageQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, err.Error())
		return
	}

	page, err := h.sessions.ListUsers(r.Context(), q)
	if err != nil {
		writeSessionError(w, r, h.logger, "list users", err)
		return
	}

	items := make([]api.User, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toAPIUser(u))
	}

	WriteSuccess(w, http.StatusOK, "Users retrieved successfully", api.UserList{
		Items: items,
		Meta: api.PageMeta{
			Page:       page.Meta.Page,
			Limit:      page.Meta.Limit,
			Total:      page.Meta.Total,
			TotalPages: page.Meta.TotalPages,
			HasNext:    page.Meta.HasNext,
			HasPrev:    page.Meta.HasPrev,
		},
	})
}

// Get обрабатывает GET /api/v1/users/{uuid}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userUUID := r.PathValue("uuid")
	if userUUID == "" {
		WriteError(w, http.StatusBadRequest, session.CodeInvalidInput, "uuid is required")
		return
	}

	user, err := h.sessions.GetUser(r.Context(), userUUID)
	if err != nil {
		writeSessionError(w, r, h.logger, "get user", err)
		return
	}

	WriteSuccess(w, http.StatusOK, "User retrieved successfully", toAPIUser(user))
}

func parsePageQuery(r *http.Request) (models.PageQuery, error) {
	values := r.URL.Query()
	q := models.PageQuery{
		SortBy:    values.Get("sort_by"),
		SortOrder: models.SortOrder(strings.ToUpper(values.Get("sort_order"))),
	}

	for _, p := range []struct {
		dst  *int
		name string
	}{
		{&q.Page, "page"},
		{&q.Limit, "limit"},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return models.PageQuery{}, errInvalidParam(p.name)
		}
		*p.dst = n
	}

	return q.Normalize(), nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return string(e) + " must be a positive integer"
}
