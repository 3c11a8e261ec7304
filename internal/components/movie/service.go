package movie

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
	"github.com/andrasnagy-data/peliculas/internal/shared/storage"
	"github.com/rs/zerolog"
)

type (
	servicer interface {
		GetMovies(ctx context.Context) ([]Movie, error)
		GetMovie(ctx context.Context, id int) (*Movie, error)
		GetMoviesInCategory(ctx context.Context, categoryID int) ([]Movie, error)
		SearchMovies(ctx context.Context, term string) ([]Movie, error)
		CreateMovie(ctx context.Context, req CreateMovieIn, image *Upload) (*Movie, error)
		UpdateMovie(ctx context.Context, id int, req UpdateMovieIn) (*Movie, error)
		DeleteMovie(ctx context.Context, id int) error
	}

	// CategoryLookup answers whether a category id exists
	CategoryLookup interface {
		Exists(ctx context.Context, id int) (bool, error)
	}

	service struct {
		repo       Repository
		categories CategoryLookup
		images     storage.Images
		logger     zerolog.Logger
	}
)

func NewService(repo Repository, categories CategoryLookup, images storage.Images, logger zerolog.Logger) servicer {
	return &service{
		repo:       repo,
		categories: categories,
		images:     images,
		logger:     logger.With().Str("component", "movie").Logger(),
	}
}

func (s *service) GetMovies(ctx context.Context) ([]Movie, error) {
	return s.repo.List(ctx)
}

func (s *service) GetMovie(ctx context.Context, id int) (*Movie, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMoviesInCategory fails with ErrCategoryNotFound for an unknown category.
// A known category without movies yields an empty list.
func (s *service) GetMoviesInCategory(ctx context.Context, categoryID int) ([]Movie, error) {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}
	return s.repo.ListByCategory(ctx, categoryID)
}

func (s *service) SearchMovies(ctx context.Context, term string) ([]Movie, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: nombre is required", apperror.ErrValidation)
	}

	movies, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, ErrNoMatches
	}
	return movies, nil
}

// CreateMovie validates the record, stores the image and persists the movie.
// Duplicates are rejected before anything is written, and the stored image is
// removed again when the insert fails.
func (s *service) CreateMovie(ctx context.Context, req CreateMovieIn, image *Upload) (*Movie, error) {
	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validNumbers(&req.Duration, &req.Rating); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMovieExists
	}

	m := Movie{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		ReleaseDate: req.ReleaseDate,
		CategoryID:  req.CategoryID,
		Rating:      req.Rating,
	}

	if image != nil {
		path, err := s.images.Save(ctx, image.Filename, image.Body)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		m.ImagePath = path
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		s.dropImage(ctx, m.ImagePath)
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateMovie(ctx context.Context, id int, req UpdateMovieIn) (*Movie, error) {
	if req.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", apperror.ErrValidation, req.ID, id)
	}

	c := Changes{
		Description: req.Description,
		Duration:    req.Duration,
		CategoryID:  req.CategoryID,
		Rating:      req.Rating,
	}

	if req.Name != nil {
		name, err := validName(*req.Name)
		if err != nil {
			return nil, err
		}
		c.Name = &name
	}
	if err := validNumbers(req.Duration, req.Rating); err != nil {
		return nil, err
	}
	if req.ReleaseDate != nil {
		d, err := ParseReleaseDate(*req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		// An empty string removes the date
		c.ReleaseDate = d
		c.ClearReleaseDate = d == nil
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, c)
}

// DeleteMovie removes the record and then its image. A failed image removal
// is logged and does not fail the request.
func (s *service) DeleteMovie(ctx context.Context, id int) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.dropImage(ctx, m.ImagePath)
	return nil
}

func (s *service) checkCategory(ctx context.Context, categoryID int) error {
	if categoryID <= 0 {
		return fmt.Errorf("%w: category_id is required", apperror.ErrValidation)
	}
	if categoryID > math.MaxInt32 {
		return ErrUnknownCategory
	}
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownCategory
	}
	return nil
}

func (s *service) dropImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Str("image_path", path).Msg("Failed to remove movie image")
	}
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", apperror.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", fmt.Errorf("%w: name must be at most %d characters", apperror.ErrValidation, MaxNameLen)
	}
	return name, nil
}

func validNumbers(duration *int, rating *float64) error {
	if duration != nil && (*duration < 0 || *duration > math.MaxInt32) {
		return fmt.Errorf("%w: duration must be between 0 and %d minutes", apperror.ErrValidation, math.MaxInt32)
	}
	if rating != nil && (math.IsNaN(*rating) || *rating < 0 || *rating > MaxRating) {
		return fmt.Errorf("%w: rating must be between 0 and %d", apperror.ErrValidation, MaxRating)
	}
	return nil
}
