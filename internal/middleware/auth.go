// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/permission"
)

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	PermissionsKey contextKey = "user_permissions"
)

// SessionVerifier resolves a raw cookie token to a user id. An empty
// result is the anonymous actor.
type SessionVerifier interface {
	TokenFromRequest(r *http.Request) string
	Verify(token string) string
}

// ActorLoader fetches the permission set for a resolved user id.
type ActorLoader interface {
	LoadPermissions(
		ctx context.Context,
		userID string,
	) (permission.List, error)
}

// ResolveActor resolves the request's actor exactly once and stores it
// in the context. Anonymous requests pass through untouched; operations
// that need identity fail fast themselves.
func ResolveActor(
	verifier SessionVerifier,
	loader ActorLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := verifier.Verify(verifier.TokenFromRequest(r))
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			perms, err := loader.LoadPermissions(r.Context(), userID)
			if err != nil {
				// A stale cookie for a deleted user degrades to
				// anonymous rather than failing every request.
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, PermissionsKey, perms)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401 before the handler
// runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			core.JSONError(
				w,
				core.UnauthorizedError("you must be signed in to do that"),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route on the actor's permission set.
func RequirePermission(
	required ...permission.Permission,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUserID(r.Context()) == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("you must be signed in to do that"),
				)
				return
			}

			if !GetPermissions(r.Context()).Has(required...) {
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetPermissions(ctx context.Context) permission.List {
	if perms, ok := ctx.Value(PermissionsKey).(permission.List); ok {
		return perms
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}

func IsAdmin(ctx context.Context) bool {
	return GetPermissions(ctx).Has(permission.Admin)
}
