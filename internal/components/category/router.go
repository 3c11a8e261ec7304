package category

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type (
	Router struct {
		service servicer
		auth    middleware.Authenticator
	}
)

func NewRouter(service servicer, auth middleware.Authenticator) chi.Router {
	router := &Router{service: service, auth: auth}
	return router.Routes()
}

// Routes mounts reads anonymously and writes behind the bearer token
func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.GetCategories)
	router.Get("/{id:[0-9]+}", r.GetCategory)

	router.Group(func(protected chi.Router) {
		protected.Use(r.auth)
		protected.Post("/", r.CreateCategory)
		protected.Patch("/{id:[0-9]+}", r.UpdateCategory)
		protected.Delete("/{id:[0-9]+}", r.DeleteCategory)
	})

	return router
}

func (r *Router) GetCategories(w http.ResponseWriter, req *http.Request) {
	categories, err := r.service.GetCategories(req.Context())
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, categories)
}

func (r *Router) GetCategory(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	c, err := r.service.GetCategory(req.Context(), id)
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, c)
}

func (r *Router) CreateCategory(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	var body CreateCategoryIn
	if err := respond.DecodeJSON(w, req, &body); err != nil {
		respond.Error(w, req, err)
		return
	}

	c, err := r.service.CreateCategory(req.Context(), body)
	if err != nil {
		logger.Warn().Err(err).Str("name", body.Name).Msg("Create category failed")
		respond.Error(w, req, err)
		return
	}

	logger.Debug().Int("id", c.ID).Msg("Category created")
	w.Header().Set("Location", fmt.Sprintf("/api/categorias/%d", c.ID))
	respond.JSON(w, req, http.StatusCreated, c)
}

func (r *Router) UpdateCategory(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	var body UpdateCategoryIn
	if err := respond.DecodeJSON(w, req, &body); err != nil {
		respond.Error(w, req, err)
		return
	}

	if _, err := r.service.UpdateCategory(req.Context(), id, body); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Int("id", id).Msg("Update category failed")
		respond.Error(w, req, err)
		return
	}
	respond.NoContent(w)
}

func (r *Router) DeleteCategory(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	if err := r.service.DeleteCategory(req.Context(), id); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Int("id", id).Msg("Delete category failed")
		respond.Error(w, req, err)
		return
	}
	respond.NoContent(w)
}

func pathID(req *http.Request) (int, error) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid category id %q", apperror.ErrValidation, idStr)
	}
	return int(id), nil
}
