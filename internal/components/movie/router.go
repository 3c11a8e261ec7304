package movie

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/config"
	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type (
	Router struct {
		service        servicer
		auth           middleware.Authenticator
		maxUploadBytes int64
	}
)

func NewRouter(service servicer, auth middleware.Authenticator, cfg *config.Config) chi.Router {
	router := &Router{
		service:        service,
		auth:           auth,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.GetMovies)
	router.Get("/{id:[0-9]+}", r.GetMovie)
	router.Get("/GetPeliculasEnCategoria/{categoriaId:[0-9]+}", r.GetMoviesInCategory)
	router.Get("/Buscar", r.SearchMovies)

	router.Group(func(protected chi.Router) {
		protected.Use(r.auth)
		protected.Post("/", r.CreateMovie)
		protected.Patch("/{id:[0-9]+}", r.UpdateMovie)
		protected.Delete("/{id:[0-9]+}", r.DeleteMovie)
	})

	return router
}

func (r *Router) GetMovies(w http.ResponseWriter, req *http.Request) {
	movies, err := r.service.GetMovies(req.Context())
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, movies)
}

func (r *Router) GetMovie(w http.ResponseWriter, req *http.Request) {
	id, err := intParam(req, "id")
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	m, err := r.service.GetMovie(req.Context(), id)
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, m)
}

func (r *Router) GetMoviesInCategory(w http.ResponseWriter, req *http.Request) {
	categoryID, err := intParam(req, "categoriaId")
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	movies, err := r.service.GetMoviesInCategory(req.Context(), categoryID)
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, movies)
}

// SearchMovies matches ?nombre= against movie names and descriptions
func (r *Router) SearchMovies(w http.ResponseWriter, req *http.Request) {
	movies, err := r.service.SearchMovies(req.Context(), req.URL.Query().Get("nombre"))
	if err != nil {
		respond.Error(w, req, err)
		return
	}
	respond.JSON(w, req, http.StatusOK, movies)
}

// CreateMovie reads a multipart form with the movie fields and an optional
// "image" file
func (r *Router) CreateMovie(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	req.Body = http.MaxBytesReader(w, req.Body, r.maxUploadBytes)
	if err := req.ParseMultipartForm(r.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.JSON(w, req, http.StatusRequestEntityTooLarge, respond.ErrorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", r.maxUploadBytes),
			})
			return
		}
		respond.Error(w, req, fmt.Errorf("%w: invalid multipart form", apperror.ErrValidation))
		return
	}
	defer req.MultipartForm.RemoveAll()

	body, err := parseCreateForm(req)
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	var image *Upload
	file, header, err := req.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > 0 {
			image = &Upload{Filename: header.Filename, Body: file}
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		respond.Error(w, req, fmt.Errorf("%w: invalid image upload", apperror.ErrValidation))
		return
	}

	m, err := r.service.CreateMovie(req.Context(), body, image)
	if err != nil {
		logger.Warn().Err(err).Str("name", body.Name).Msg("Create movie failed")
		respond.Error(w, req, err)
		return
	}

	logger.Debug().Int("id", m.ID).Str("image_path", m.ImagePath).Msg("Movie created")
	w.Header().Set("Location", fmt.Sprintf("/api/peliculas/%d", m.ID))
	respond.JSON(w, req, http.StatusCreated, m)
}

func (r *Router) UpdateMovie(w http.ResponseWriter, req *http.Request) {
	id, err := intParam(req, "id")
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	var body UpdateMovieIn
	if err := respond.DecodeJSON(w, req, &body); err != nil {
		respond.Error(w, req, err)
		return
	}

	if _, err := r.service.UpdateMovie(req.Context(), id, body); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Int("id", id).Msg("Update movie failed")
		respond.Error(w, req, err)
		return
	}
	respond.NoContent(w)
}

func (r *Router) DeleteMovie(w http.ResponseWriter, req *http.Request) {
	id, err := intParam(req, "id")
	if err != nil {
		respond.Error(w, req, err)
		return
	}

	if err := r.service.DeleteMovie(req.Context(), id); err != nil {
		hlog.FromRequest(req).Warn().Err(err).Int("id", id).Msg("Delete movie failed")
		respond.Error(w, req, err)
		return
	}
	respond.NoContent(w)
}

func parseCreateForm(req *http.Request) (CreateMovieIn, error) {
	form := req.MultipartForm
	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	}

	in := CreateMovieIn{
		Name:        value("name"),
		Description: value("description"),
	}

	var err error
	if v := value("duration"); v != "" {
		if in.Duration, err = atoi32(v); err != nil {
			return in, fmt.Errorf("%w: duration must be a whole number of minutes", apperror.ErrValidation)
		}
	}
	if v := value("category_id"); v != "" {
		if in.CategoryID, err = atoi32(v); err != nil {
			return in, fmt.Errorf("%w: category_id must be a number", apperror.ErrValidation)
		}
	}
	if v := value("rating"); v != "" {
		if in.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return in, fmt.Errorf("%w: rating must be a number", apperror.ErrValidation)
		}
	}
	if in.ReleaseDate, err = ParseReleaseDate(value("release_date")); err != nil {
		return in, err
	}

	return in, nil
}

func intParam(req *http.Request, name string) (int, error) {
	raw := chi.URLParam(req, name)
	v, err := atoi32(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", apperror.ErrValidation, name, raw)
	}
	return v, nil
}

// atoi32 parses values stored in INTEGER columns
func atoi32(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}
