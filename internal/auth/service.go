// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserInfo struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// UserProvider owns user persistence and password checks.
type UserProvider interface {
	Create(
		ctx context.Context,
		email, password, firstName, lastName string,
	) (*UserInfo, error)
	Authenticate(ctx context.Context, email, password string) (*UserInfo, error)
}

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

type Service struct {
	tokens TokenIssuer
	users  UserProvider
}

func NewService(tokens TokenIssuer, users UserProvider) *Service {
	return &Service{tokens: tokens, users: users}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	user, err := s.users.Create(
		ctx,
		req.Email,
		req.Password,
		req.FirstName,
		req.LastName,
	)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.respond(user)
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return s.respond(user)
}

func (s *Service) respond(user *UserInfo) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		User: UserResponse{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		Token: token,
	}, nil
}
