package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// SetClaims returns a context with the access claims set. Used by auth middleware.
func SetClaims(ctx context.Context, claims *domain.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated access claims from the context, if present.
func ClaimsFromContext(ctx context.Context) (*domain.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.AccessClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// RequireAuth returns a wrapper that validates the Bearer access token and sets
// the verified claims in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(tokens domain.TokenService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetClaims(r.Context(), claims))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that rejects requests whose access token does not
// carry the given role. Must run after RequireAuth.
// Role revocation takes effect when the access token expires, not immediately.
func RequireRole(role domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			if !claims.HasRole(role) {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
				return
			}
			next(w, r)
		}
	}
}
