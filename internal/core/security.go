// AngelaMos | 2026
// security.go

package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher keys an HMAC-SHA256 of every password with a server-wide
// pepper and bcrypt hashes the base64 digest with the configured cost.
// bcrypt input is always 44 bytes, whatever the pepper or password length.
type PasswordHasher struct {
	pepper    []byte
	cost      int
	dummyHash string
}

func NewPasswordHasher(pepper string, cost int) (*PasswordHasher, error) {
	if pepper == "" {
		return nil, fmt.Errorf("password pepper is not set: %w", ErrConfig)
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid bcrypt cost %d: %w", cost, ErrConfig)
	}

	h := &PasswordHasher{pepper: []byte(pepper), cost: cost}

	dummy, err := h.Hash("dummy_password_for_timing_attack_prevention")
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	h.dummyHash = dummy

	return h, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether password matches digest. A mismatch is not an error.
func (h *PasswordHasher) Verify(password, digest string) (bool, error) {
	if digest == "" {
		return false, fmt.Errorf("verify password: empty digest")
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), h.peppered(password))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("verify password: %w", err)
}

// VerifyTimingSafe behaves like Verify. Without a digest it still runs a
// comparison against a dummy digest and reports false.
func (h *PasswordHasher) VerifyTimingSafe(password string, digest *string) (bool, error) {
	if digest == nil || *digest == "" {
		//nolint:errcheck // result intentionally ignored
		_, _ = h.Verify(password, h.dummyHash)
		return false, nil
	}

	return h.Verify(password, *digest)
}

func (h *PasswordHasher) Cost() int {
	return h.cost
}

func (h *PasswordHasher) peppered(password string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(password))

	out := make([]byte, base64.StdEncoding.EncodedLen(sha256.Size))
	base64.StdEncoding.Encode(out, mac.Sum(nil))
	return out
}
