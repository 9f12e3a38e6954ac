package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubhub/internal/delivery/http/helpers"
	"clubhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenService implements domain.TokenService for tests. Only VerifyAccess
// is exercised by the middleware.
type fakeTokenService struct {
	claims *domain.AccessClaims
	err    error
}

func (f *fakeTokenService) IssuePair(_, _ string, _ []string) (*domain.TokenPair, error) {
	return nil, nil
}

func (f *fakeTokenService) VerifyAccess(_ string) (*domain.AccessClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func (f *fakeTokenService) VerifyRefresh(_ string) (string, error) { return "", nil }

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	parentClaims := &domain.AccessClaims{UserID: "user-123", Email: "p@example.com", Roles: []string{"parent"}}

	tests := []struct {
		name          string
		authHeader    string
		tokens        domain.TokenService
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets claims and calls next",
			authHeader:    "Bearer valid-token",
			tokens:        &fakeTokenService{claims: parentClaims},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			tokens:       &fakeTokenService{claims: parentClaims},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			tokens:       &fakeTokenService{claims: parentClaims},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			tokens:       &fakeTokenService{claims: parentClaims},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			tokens:       &fakeTokenService{err: domain.ErrUnauthorized},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				id, ok := UserIDFromContext(r.Context())
				if ok {
					capturedUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			wrap := RequireAuth(tt.tokens, logger)
			handler := wrap(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled && tt.wantContextID != "" {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
			}
			if tt.wantStatus != http.StatusOK && tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.AccessClaims
		role       domain.Role
		wantStatus int
	}{
		{
			name:       "claims carry the required role",
			claims:     &domain.AccessClaims{UserID: "u1", Roles: []string{"parent", "admin"}},
			role:       domain.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "claims lack the required role",
			claims:     &domain.AccessClaims{UserID: "u1", Roles: []string{"parent"}},
			role:       domain.RoleAdmin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no claims in context",
			claims:     nil,
			role:       domain.RoleClubOwner,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireRole(tt.role)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/admin/club-requests", nil)
			if tt.claims != nil {
				req = req.WithContext(SetClaims(req.Context(), tt.claims))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
