// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/core"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
	VerifyTimingSafe(password string, digest *string) (bool, error)
}

type Service struct {
	repo   Repository
	hasher Hasher
}

func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

var _ auth.UserProvider = (*Service)(nil)

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create rejects a taken email before hashing or inserting. The unique
// index still guards concurrent signups.
func (s *Service) Create(
	ctx context.Context,
	email, password, firstName, lastName string,
) (*auth.UserInfo, error) {
	email = normalizeEmail(email)

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		Email:          email,
		PasswordDigest: digest,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps timing equal for unknown accounts
			_, _ = s.hasher.VerifyTimingSafe(password, nil)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := s.hasher.VerifyTimingSafe(password, &user.PasswordDigest)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, auth.ErrInvalidCredentials
	}

	return toUserInfo(user), nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	changes := req.changes()
	if changes.IsEmpty() {
		return nil, fmt.Errorf("update user: %w", core.Invalid("no valid updates provided"))
	}

	if !isBlank(changes.Email) {
		email := normalizeEmail(*changes.Email)
		changes.Email = &email

		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
	}

	return s.repo.Update(ctx, id, changes)
}

// UpdatePassword replaces the digest only after the current password
// verifies.
func (s *Service) UpdatePassword(
	ctx context.Context,
	id int64,
	req UpdatePasswordRequest,
) error {
	digest, err := s.repo.PasswordDigest(ctx, id)
	if err != nil {
		return err
	}

	valid, err := s.hasher.Verify(req.CurrentPassword, digest)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return fmt.Errorf("update password: %w: %w",
			core.Invalid("current password is incorrect"), ErrWrongPassword)
	}

	newDigest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, id, newDigest)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) RecentOrders(ctx context.Context, userID int64) ([]RecentOrder, error) {
	return s.repo.RecentOrders(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
