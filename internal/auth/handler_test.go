// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
)

type memoryUsers struct {
	byEmail   map[string]*UserInfo
	passwords map[string]string
	nextID    int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		byEmail:   map[string]*UserInfo{},
		passwords: map[string]string{},
	}
}

func (m *memoryUsers) Create(
	_ context.Context,
	email, password, firstName, lastName string,
) (*UserInfo, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	m.nextID++
	u := &UserInfo{ID: m.nextID, FirstName: firstName, LastName: lastName, Email: email}
	m.byEmail[email] = u
	m.passwords[email] = password
	return u, nil
}

func (m *memoryUsers) Authenticate(_ context.Context, email, password string) (*UserInfo, error) {
	u, ok := m.byEmail[email]
	if !ok || m.passwords[email] != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func newTestRouter(t *testing.T) (http.Handler, *TokenManager) {
	t.Helper()

	tokens, err := NewTokenManager(config.JWTConfig{Secret: "test-secret", Expire: time.Hour})
	require.NoError(t, err)

	handler := NewHandler(NewService(tokens, newMemoryUsers()))

	r := chi.NewRouter()
	r.Route("/api/users", handler.RegisterRoutes)
	return r, tokens
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const signupBody = `{"email":"a@b.com","password":"longenough","first_name":"A","last_name":"B"}`

func TestSignupReturnsUserAndToken(t *testing.T) {
	router, tokens := newTestRouter(t)

	rec := postJSON(router, "/api/users", signupBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@b.com", resp.User.Email)
	assert.Equal(t, "A", resp.User.FirstName)

	identity, err := tokens.Verify(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)

	body := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, string(body["user"]), "password")
}

func TestSignupThenLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(router, "/api/users", signupBody).Code)

	rec := postJSON(router, "/api/users/login", `{"email":"a@b.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@b.com", resp.User.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(router, "/api/users", signupBody).Code)

	rec := postJSON(router, "/api/users", signupBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE", body.Code)
	assert.Equal(t, "email already exists", body.Error)
}

func TestSignupValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(router, "/api/users", `{"email":"a@b.com","password":"short","first_name":"A","last_name":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password must be at least 8 characters")
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(router, "/api/users", signupBody).Code)

	rec := postJSON(router, "/api/users/login", `{"email":"a@b.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(router, "/api/users/login", `{"email":"nobody@b.com","password":"longenough"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
