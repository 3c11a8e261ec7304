package user

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/andrasnagy-data/peliculas/internal/shared/token"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type (
	Router struct {
		service servicer
		issuer  *token.Issuer
		auth    middleware.Authenticator
	}
)

func NewRouter(service servicer, issuer *token.Issuer, auth middleware.Authenticator) chi.Router {
	router := &Router{service: service, issuer: issuer, auth: auth}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/Registro", r.Register)
	router.Post("/Login", r.Login)

	router.Group(func(protected chi.Router) {
		protected.Use(r.auth)
		protected.Get("/", r.GetUsers)
		protected.Get("/{id:[0-9]+}", r.GetUser)
	})

	return router
}

func (r *Router) GetUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.service.GetUsers(req.Context())
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, users)
}

func (r *Router) GetUser(w http.ResponseWriter, req *http.Request) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		respond.Error(w, req, fmt.Errorf("%w: invalid user id %q", apperror.ErrValidation, idStr))
		return
	}

	u, err := r.service.GetUser(req.Context(), int(id))
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, u)
}

func (r *Router) Register(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	body, ok := decodeAuth(w, req)
	if !ok {
		return
	}

	u, err := r.service.Register(req.Context(), body)
	if err != nil {
		logger.Warn().Err(err).Msg("Registration failed")
		respond.Error(w, req, err)
		return
	}

	logger.Info().Int("user_id", u.ID).Str("username", u.Username).Msg("User registered")
	w.Header().Set("Location", fmt.Sprintf("/api/usuarios/%d", u.ID))
	respond.JSON(w, req, http.StatusCreated, u)
}

// Login verifies the credentials and issues a bearer token
func (r *Router) Login(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	body, ok := decodeAuth(w, req)
	if !ok {
		return
	}

	u, err := r.service.Login(req.Context(), body)
	if err != nil {
		logger.Warn().Err(err).Msg("Login failed")
		respond.Error(w, req, err)
		return
	}

	signed, expiresAt, err := r.issuer.Issue(u.ID, u.Username)
	if err != nil {
		respond.Error(w, req, fmt.Errorf("issue token: %w", err))
		return
	}

	logger.Debug().Int("user_id", u.ID).Msg("Login successful")
	respond.JSON(w, req, http.StatusOK, LoginOut{Token: signed, ExpiresAt: expiresAt})
}

func decodeAuth(w http.ResponseWriter, req *http.Request) (AuthIn, bool) {
	var body AuthIn
	if err := respond.DecodeJSON(w, req, &body); err != nil {
		respond.Error(w, req, err)
		return body, false
	}
	return body, true
}
