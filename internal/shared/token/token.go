package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/shared/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

type (
	// Claims carries the user identity. The user id travels in the
	// registered "sub" claim.
	Claims struct {
		Username string `json:"unique_name"`
		jwt.RegisteredClaims
	}

	// Issuer signs and validates HS512 bearer tokens with a server-held secret
	Issuer struct {
		secret []byte
		ttl    time.Duration
		now    func() time.Time
	}
)

// UserID returns the numeric id stored in the subject claim
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalid, c.Subject)
	}
	return id, nil
}

func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if len(cfg.TokenSecret) < config.MinTokenSecretLen {
		return nil, config.ErrWeakTokenSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(cfg.TokenSecret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token for the user and the instant it expires
func (i *Issuer) Issue(userID int, username string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate checks signature and expiry and returns the embedded claims
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
