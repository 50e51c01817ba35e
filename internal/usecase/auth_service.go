package usecase

import (
	"context"
	"errors"
	"fmt"

	"jobly/internal/domain"
)

type AuthService struct {
	Users  UserStore
	Signer domain.TokenSigner
}

func NewAuthService(users UserStore, signer domain.TokenSigner) *AuthService {
	return &AuthService{Users: users, Signer: signer}
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	user, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.IssueFor(user)
}

// Register signs up a regular user. Any admin flag in input is ignored.
func (s *AuthService) Register(ctx context.Context, input domain.NewUser) (string, error) {
	input.IsAdmin = false
	_, token, err := s.CreateUser(ctx, input)
	return token, err
}

// CreateUser stores input as given, admin flag included, and returns the
// user with a token for it.
func (s *AuthService) CreateUser(ctx context.Context, input domain.NewUser) (domain.User, string, error) {
	if err := s.ready(); err != nil {
		return domain.User{}, "", err
	}
	user, err := s.Users.Register(ctx, input)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.IssueFor(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) IssueFor(user domain.User) (string, error) {
	if s == nil || s.Signer == nil {
		return "", errors.New("token signer is required")
	}
	token, err := s.Signer.Sign(domain.Identity{Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) ready() error {
	if s == nil {
		return errors.New("auth service is nil")
	}
	if s.Users == nil {
		return errors.New("user store is required")
	}
	if s.Signer == nil {
		return errors.New("token signer is required")
	}
	return nil
}
