package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/service"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

type ctxKey struct{}

// IdentityVerifier turns a bearer token into the identity it carries.
type IdentityVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// RequireAuth requires "Authorization: Bearer <jwt>". A missing or unparseable
// credential is 401; a well-formed token that fails signature, issuer or
// expiry checks is 403.
func RequireAuth(v IdentityVerifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, err := v.Verify(bearerToken(r))
			if err != nil {
				slogx.FromContext(ctx).Warn("jwt verify failed", "err", err)
				if errors.Is(err, service.ErrUnauthenticated) {
					writeBearerError(w, http.StatusUnauthorized, "No token provided")
					return
				}
				writeBearerError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx = slogx.With(ctx, "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKey{}, id)))
		})
	}
}

// ActiveChecker confirms an account still exists.
type ActiveChecker interface {
	EnsureActive(ctx context.Context, userID string) error
}

// RequireActiveAccount refuses tokens whose account has been deleted. It must
// run after RequireAuth.
func RequireActiveAccount(c ActiveChecker) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeBearerError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			if err := c.EnsureActive(r.Context(), id.UserID); err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					writeBearerError(w, http.StatusForbidden, "Invalid or expired token")
					return
				}
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the identity placed by RequireAuth.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok && id.UserID != ""
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

// RFC 6750-style challenge plus the JSON error body every other endpoint uses.
func writeBearerError(w http.ResponseWriter, code int, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	httpx.WriteError(w, code, desc)
}
