// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/middleware"
	"github.com/angelamos/storefront/internal/permission"
)

type recordingSessions struct {
	set     []string
	cleared int
}

func (r *recordingSessions) SetCookie(w http.ResponseWriter, token string) {
	r.set = append(r.set, token)
	http.SetCookie(w, &http.Cookie{Name: "token", Value: token})
}

func (r *recordingSessions) ClearCookie(w http.ResponseWriter) {
	r.cleared++
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", MaxAge: -1})
}

func newTestHandler(repo Repository) (*Handler, *recordingSessions) {
	sessions := &recordingSessions{}
	svc := newTestService(repo, &mockMailer{})
	return NewHandler(svc, sessions), sessions
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestSignupHandler(t *testing.T) {
	t.Run("creates user and sets session cookie", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, user *User) error {
				return nil
			},
		}
		h, sessions := newTestHandler(repo)

		body := `{"email":"shopper@example.com","password":"hunter2hunter2","name":"Shopper"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "shopper@example.com")
		require.Len(t, sessions.set, 1)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := &mockRepository{
			createFunc: func(ctx context.Context, user *User) error {
				return core.ErrDuplicateKey
			},
		}
		h, _ := newTestHandler(repo)

		body := `{"email":"taken@example.com","password":"hunter2hunter2","name":"Dup"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		h, sessions := newTestHandler(&mockRepository{})

		body := `{"email":"not-an-email","password":"short","name":""}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, sessions.set)
	})
}

func TestSigninHandler(t *testing.T) {
	hash, err := core.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	repo := &mockRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email != "shopper@example.com" {
				return nil, core.ErrNotFound
			}
			return &User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: hash,
				Permissions:  permission.Default(),
			}, nil
		},
	}

	t.Run("success", func(t *testing.T) {
		h, sessions := newTestHandler(repo)

		body := `{"email":"shopper@example.com","password":"hunter2hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, sessions.set, 1)
	})

	t.Run("unknown account", func(t *testing.T) {
		h, _ := newTestHandler(repo)

		body := `{"email":"nobody@example.com","password":"hunter2hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		h, sessions := newTestHandler(repo)

		body := `{"email":"shopper@example.com","password":"wrong-password"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, sessions.set)
	})
}

func TestSignoutHandler(t *testing.T) {
	h, sessions := newTestHandler(&mockRepository{})

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	rec := httptest.NewRecorder()

	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sessions.cleared)
}

func TestMeHandler(t *testing.T) {
	t.Run("anonymous gets empty body", func(t *testing.T) {
		h, _ := newTestHandler(&mockRepository{})

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("resolved actor gets their record", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFunc: func(ctx context.Context, id string) (*User, error) {
				return &User{
					ID:          id,
					Email:       "shopper@example.com",
					Permissions: permission.Default(),
				}, nil
			},
		}
		h, _ := newTestHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user-1")
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "shopper@example.com")
	})
}

func TestUpdatePermissionsHandler(t *testing.T) {
	asActor := func(req *http.Request, perms permission.List) *http.Request {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, "actor-1")
		ctx = context.WithValue(ctx, middleware.PermissionsKey, perms)
		return req.WithContext(ctx)
	}

	t.Run("admin grants permissions", func(t *testing.T) {
		repo := &mockRepository{
			updatePermissionsFunc: func(ctx context.Context, id string, perms permission.List) (*User, error) {
				return &User{ID: id, Permissions: perms}, nil
			},
		}
		h, _ := newTestHandler(repo)

		body := `{"permissions":["USER","ITEMDELETE"]}`
		req := httptest.NewRequest(
			http.MethodPut,
			"/users/target-1/permissions",
			strings.NewReader(body),
		)
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, asActor(req, permission.List{permission.Admin}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ITEMDELETE")
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		h, _ := newTestHandler(&mockRepository{})

		body := `{"permissions":["ADMIN"]}`
		req := httptest.NewRequest(
			http.MethodPut,
			"/users/target-1/permissions",
			strings.NewReader(body),
		)
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, asActor(req, permission.List{permission.User}))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		h, _ := newTestHandler(&mockRepository{})

		body := `{"permissions":["ADMIN"]}`
		req := httptest.NewRequest(
			http.MethodPut,
			"/users/target-1/permissions",
			strings.NewReader(body),
		)
		rec := httptest.NewRecorder()

		newRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
