package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/password"
)

// dummySalt is hashed against when the username is unknown so that both
// failed-login paths do the same work
var dummySalt = make([]byte, password.SaltSize)

type (
	servicer interface {
		GetUsers(ctx context.Context) ([]User, error)
		GetUser(ctx context.Context, id int) (*User, error)
		Register(ctx context.Context, req AuthIn) (*User, error)
		Login(ctx context.Context, req AuthIn) (*User, error)
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) servicer {
	return &service{repo: repo}
}

func (s *service) GetUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) GetUser(ctx context.Context, id int) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Register stores a new user under the lowercased username with a fresh
// random salt
func (s *service) Register(ctx context.Context, req AuthIn) (*User, error) {
	username := normalize(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperror.ErrValidation)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return nil, fmt.Errorf("%w: username must be at most %d characters", apperror.ErrValidation, MaxUsernameLen)
	}
	if n := utf8.RuneCountInString(req.Password); n < MinPasswordLen || n > MaxPasswordLen {
		return nil, fmt.Errorf("%w: password must be between %d and %d characters",
			apperror.ErrValidation, MinPasswordLen, MaxPasswordLen)
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	salt, err := password.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	return s.repo.Create(ctx, username, password.Hash(req.Password, salt), salt)
}

// Login returns the identity for a matching username and password. Unknown
// users and wrong passwords both fail with ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, req AuthIn) (*User, error) {
	username := normalize(req.Username)

	// No stored password is longer, skip the hash
	if utf8.RuneCountInString(req.Password) > MaxPasswordLen {
		return nil, ErrInvalidCredentials
	}

	creds, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			password.Hash(req.Password, dummySalt)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, creds.Salt, creds.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	u := creds.User
	return &u, nil
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
