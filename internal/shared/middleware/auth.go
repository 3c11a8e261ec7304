package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/andrasnagy-data/peliculas/internal/shared/token"
	"github.com/rs/zerolog/hlog"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const claimsKey contextKey = "claims"

type (
	// Authenticator guards routes that require a bearer token
	Authenticator func(http.Handler) http.Handler

	validator interface {
		Validate(tokenString string) (*token.Claims, error)
	}
)

// ClaimsFromContext returns the claims stored by the auth middleware
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// WithClaims stores claims on ctx the same way the auth middleware does
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// NewAuthMiddleware creates authentication middleware that validates the
// Authorization bearer token and rejects the request with 401 before it
// reaches the handler. Valid claims are added to the request context.
func NewAuthMiddleware(v *token.Issuer) Authenticator {
	return newAuthMiddleware(v)
}

func newAuthMiddleware(v validator) Authenticator {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			raw, ok := bearerToken(r)
			if !ok {
				respond.JSON(w, r, http.StatusUnauthorized, respond.ErrorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := v.Validate(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, token.ErrExpired) {
					msg = "token expired"
				}
				logger.Debug().Err(err).Msg("Rejected bearer token")
				respond.JSON(w, r, http.StatusUnauthorized, respond.ErrorResponse{Error: msg})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
