// AngelaMos | 2026
// manager_test.go

package session

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/storefront/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privPath, pubPath))

	mgr, err := NewManager(config.SessionConfig{
		PrivateKeyPath: privPath,
		PublicKeyPath:  pubPath,
		CookieName:     "token",
		TokenTTL:       time.Hour,
		Issuer:         "storefront-test",
	})
	require.NoError(t, err)

	return mgr
}

func TestIssueAndVerify(t *testing.T) {
	mgr := newTestManager(t)

	token, err := mgr.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "user-123", mgr.Verify(token))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := newTestManager(t)

	assert.Empty(t, mgr.Verify(""))
	assert.Empty(t, mgr.Verify("not.a.token"))
	assert.Empty(t, mgr.Verify("eyJhbGciOiJub25lIn0.e30."))
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer := newTestManager(t)
	verifier := newTestManager(t)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	assert.Empty(t, verifier.Verify(token))
}

func TestCookieLifecycle(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	mgr.SetCookie(rec, "signed-token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(time.Hour/time.Second), cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	rec = httptest.NewRecorder()
	mgr.ClearCookie(rec)

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestTokenFromRequest(t *testing.T) {
	mgr := newTestManager(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, mgr.TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: "token", Value: "abc"})
	assert.Equal(t, "abc", mgr.TokenFromRequest(r))
}

func TestJWKSHandler(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	mgr.JWKSHandler()(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"keys"`)
}
