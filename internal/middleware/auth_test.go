// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type stubVerifier struct {
	tokens map[string]*Identity
	err    error
}

func (s stubVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if identity, ok := s.tokens[token]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
}

func ownerRouter(verifier TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.With(Authenticator(verifier), RequireOwner("id")).
		Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			core.OK(w, map[string]any{"viewer": GetUserID(r.Context())})
		})
	r.With(RequireOwner("id")).
		Get("/unauthenticated/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorResponse {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticatorAndOwner(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]*Identity{
		"good": {ID: 7, Email: "a@b.com"},
	}}

	tests := []struct {
		name   string
		path   string
		header string
		status int
		code   string
	}{
		{name: "missing header", path: "/users/7", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "wrong scheme", path: "/users/7", header: "Basic good", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "empty bearer", path: "/users/7", header: "Bearer ", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "invalid token", path: "/users/7", header: "Bearer forged", status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
		{name: "owner", path: "/users/7", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", path: "/users/7", header: "bearer good", status: http.StatusOK},
		{name: "other user", path: "/users/8", header: "Bearer good", status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "non numeric id", path: "/users/abc", header: "Bearer good", status: http.StatusBadRequest, code: "BAD_REQUEST"},
		{name: "owner gate without identity", path: "/unauthenticated/7", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
	}

	handler := ownerRouter(verifier)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	handler := ownerRouter(stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)})

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set("Authorization", "Bearer old")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, rec).Code)
}

func TestAuthenticatorAttachesIdentity(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]*Identity{
		"good": {ID: 7, Email: "a@b.com"},
	}}

	var seen *Identity
	handler := Authenticator(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.ID)
	assert.Equal(t, "a@b.com", seen.Email)
}

func TestContextAccessorsWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetIdentity(ctx))
	assert.Zero(t, GetUserID(ctx))
}
