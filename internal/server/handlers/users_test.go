package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophauth/internal/models"
	"github.com/iudanet/gophauth/internal/server/session"
	"github.com/iudanet/gophauth/pkg/api"
)

func TestUsersHandler_List(t *testing.T) {
	mock := &SessionServiceMock{
		ListUsersFunc: func(_ context.Context, q models.PageQuery) (models.Page[models.UserView], error) {
			return models.Page[models.UserView]{
				Items: []models.UserView{testUser},
				Meta:  models.NewPageMeta(q, 21),
			}, nil
		},
	}
	handler := NewUsersHandler(setupTestLogger(), mock)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&limit=10&sort_by=email&sort_order=asc", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var data api.UserList
	resp := decodeEnvelope(t, w, &data)
	assert.True(t, resp.Success)
	require.Len(t, data.Items, 1)
	assert.Equal(t, testUser.UUID, data.Items[0].UUID)
	assert.Equal(t, api.PageMeta{
		Page:       2,
		Limit:      10,
		Total:      21,
		TotalPages: 3,
		HasNext:    true,
		HasPrev:    true,
	}, data.Meta)

	calls := mock.ListUsersCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.PageQuery{
		SortBy:    "email",
		SortOrder: models.SortAsc,
		Page:      2,
		Limit:     10,
	}, calls[0].Q)
}

func TestUsersHandler_List_Defaults(t *testing.T) {
	mock := &SessionServiceMock{
		ListUsersFunc: func(_ context.Context, q models.PageQuery) (models.Page[models.UserView], error) {
			return models.Page[models.UserView]{Meta: models.NewPageMeta(q, 0)}, nil
		},
	}
	handler := NewUsersHandler(setupTestLogger(), mock)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/users?sort_by=password_hash", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var data api.UserList
	decodeEnvelope(t, w, &data)
	assert.NotNil(t, data.Items)
	assert.Empty(t, data.Items)

	calls := mock.ListUsersCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "created_at", calls[0].Q.SortBy)
	assert.Equal(t, models.SortDesc, calls[0].Q.SortOrder)
	assert.Equal(t, 1, calls[0].Q.Page)
	assert.Equal(t, models.DefaultPageLimit, calls[0].Q.Limit)
}

func TestUsersHandler_List_BadParams(t *testing.T) {
	for _, query := range []string{"page=abc", "limit=-1", "page=0"} {
		t.Run(query, func(t *testing.T) {
			mock := &SessionServiceMock{}
			handler := NewUsersHandler(setupTestLogger(), mock)

			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/users?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeEnvelope(t, w, nil)
			assert.Equal(t, session.CodeInvalidInput, resp.Error)
			assert.Empty(t, mock.ListUsersCalls())
		})
	}
}

func TestUsersHandler_Get(t *testing.T) {
	mock := &SessionServiceMock{
		GetUserFunc: func(_ context.Context, userUUID string) (models.UserView, error) {
			if userUUID == testUser.UUID {
				return testUser, nil
			}
			return models.UserView{}, session.ErrNotFound
		},
	}
	handler := NewUsersHandler(setupTestLogger(), mock)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/{uuid}", handler.Get)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testUser.UUID, nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var data api.User
		decodeEnvelope(t, w, &data)
		assert.Equal(t, testUser.Email, data.Email)
		assert.Equal(t, testUser.FirstName, data.FirstName)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/unknown", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeEnvelope(t, w, nil)
		assert.Equal(t, session.CodeNotFound, resp.Error)
	})
}
