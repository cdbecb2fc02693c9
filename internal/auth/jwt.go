// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

const userClaim = "user"

// TokenManager issues and verifies HS256 bearer tokens whose "user" claim
// carries {id, email}.
type TokenManager struct {
	secret []byte
	expire time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not set: %w", core.ErrConfig)
	}

	expire := cfg.Expire
	if expire <= 0 {
		expire = 24 * time.Hour
	}

	return &TokenManager{
		secret: []byte(cfg.Secret),
		expire: expire,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("issue token: %w", core.ErrConfig)
	}

	now := m.now()

	builder := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		IssuedAt(now).
		Expiration(now.Add(m.expire)).
		Claim(userClaim, map[string]any{
			"id":    userID,
			"email": email,
		})
	if m.issuer != "" {
		builder = builder.Issuer(m.issuer)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *TokenManager) Verify(
	_ context.Context,
	tokenString string,
) (*middleware.Identity, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("verify token: %w", core.ErrConfig)
	}

	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var claim map[string]any
	if err := token.Get(userClaim, &claim); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing user claim: %w",
			core.ErrTokenInvalid,
		)
	}

	id, ok := claimID(claim["id"])
	if !ok || id <= 0 {
		return nil, fmt.Errorf(
			"verify token: invalid user id: %w",
			core.ErrTokenInvalid,
		)
	}

	email, _ := claim["email"].(string)

	return &middleware.Identity{ID: id, Email: email}, nil
}

func claimID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), id == float64(int64(id))
	case int64:
		return id, true
	case int:
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
