package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/task-planner-api/internal/auth"
	"github.com/BuzzLyutic/task-planner-api/internal/model"
	"github.com/BuzzLyutic/task-planner-api/internal/repo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	users  repo.UserRepository
	hasher auth.Hasher
}

func NewAuthService(users repo.UserRepository, hasher auth.Hasher) *AuthService {
	if hasher == nil {
		hasher = auth.Plain{}
	}
	return &AuthService{users: users, hasher: hasher}
}

// Register stores a new user. A taken username yields repo.ErrorDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, c model.Credentials) (model.User, error) {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return model.User{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	stored, err := s.hasher.Hash(c.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return model.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return model.User{}, err
	}
	return s.users.Create(ctx, c.Username, stored)
}

func (s *AuthService) Authenticate(ctx context.Context, c model.Credentials) (model.User, error) {
	u, err := s.users.FindByUsername(ctx, c.Username)
	if errors.Is(err, repo.ErrorNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if !s.hasher.Compare(u.Password, c.Password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}
