// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
)

func newTestTokenManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(config.JWTConfig{
		Secret: secret,
		Expire: 24 * time.Hour,
		Issuer: "storefront-api",
	})
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestTokenManager(t, "test-secret")

	token, err := m.Issue(42, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, "a@b.com", identity.Email)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	token, err := newTestTokenManager(t, "secret-one").Issue(1, "a@b.com")
	require.NoError(t, err)

	_, err = newTestTokenManager(t, "secret-two").Verify(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestTokenManager(t, "test-secret")

	_, err := m.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestTokenManager(t, "test-secret")

	token, err := m.Issue(1, "a@b.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}

	_, err = m.Verify(context.Background(), tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := newTestTokenManager(t, "test-secret")

	issuedAt := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, err := m.Issue(1, "a@b.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager(config.JWTConfig{})
	assert.ErrorIs(t, err, core.ErrConfig)

	var zero TokenManager
	_, err = zero.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, core.ErrConfig)
}
