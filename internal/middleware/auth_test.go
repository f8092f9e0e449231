// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/permission"
)

type stubVerifier struct {
	userID string
}

func (s *stubVerifier) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie("token")
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *stubVerifier) Verify(token string) string {
	if token == "" {
		return ""
	}
	return s.userID
}

type stubLoader struct {
	perms permission.List
	err   error
}

func (s *stubLoader) LoadPermissions(
	ctx context.Context,
	userID string,
) (permission.List, error) {
	return s.perms, s.err
}

func withCookie(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: "token", Value: "signed"})
	return r
}

func TestResolveActor(t *testing.T) {
	t.Run("resolves user and permissions", func(t *testing.T) {
		mw := ResolveActor(
			&stubVerifier{userID: "user-1"},
			&stubLoader{perms: permission.List{permission.Admin}},
		)

		var gotID string
		var gotPerms permission.List
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetUserID(r.Context())
			gotPerms = GetPermissions(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "user-1", gotID)
		assert.Equal(t, permission.List{permission.Admin}, gotPerms)
	})

	t.Run("no cookie is anonymous", func(t *testing.T) {
		mw := ResolveActor(&stubVerifier{userID: "user-1"}, &stubLoader{})

		var gotID string
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetUserID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, gotID)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stale cookie degrades to anonymous", func(t *testing.T) {
		mw := ResolveActor(
			&stubVerifier{userID: "deleted-user"},
			&stubLoader{err: assert.AnError},
		)

		var gotID string
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = GetUserID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Empty(t, gotID)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "signed in")
	})

	t.Run("resolved actor passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(r.Context(), UserIDKey, "user-1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(permission.Admin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	newRequest := func(perms permission.List) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(r.Context(), UserIDKey, "user-1")
		ctx = context.WithValue(ctx, PermissionsKey, perms)
		return r.WithContext(ctx)
	}

	t.Run("granted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(permission.List{permission.Admin}))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing grant gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(permission.List{permission.User}))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
