package user

import (
	"fmt"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
)

const (
	MaxUsernameLen = 50
	MinPasswordLen = 4
	MaxPasswordLen = 10
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", apperror.ErrNotFound)
	ErrDuplicateUser      = fmt.Errorf("user %w", apperror.ErrAlreadyExists)
	ErrInvalidCredentials = apperror.New(apperror.ErrUnauthorized, "invalid username or password")
)

type (
	// User is the public identity. Hash and salt never leave the store.
	User struct {
		ID        int       `json:"id"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Credentials is the stored login record for a user
	Credentials struct {
		User
		PasswordHash []byte
		Salt         []byte
	}

	AuthIn struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginOut struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
)
