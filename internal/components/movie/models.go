package movie

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
)

const (
	MaxNameLen = 100
	MaxRating  = 10

	dateLayout = "2006-01-02"
)

var (
	ErrMovieNotFound    = fmt.Errorf("movie %w", apperror.ErrNotFound)
	ErrMovieExists      = fmt.Errorf("movie %w", apperror.ErrAlreadyExists)
	ErrCategoryNotFound = fmt.Errorf("category %w", apperror.ErrNotFound)
	ErrUnknownCategory  = fmt.Errorf("%w: category_id does not reference an existing category", apperror.ErrValidation)
	ErrNoMatches        = fmt.Errorf("no matching movies: %w", apperror.ErrNotFound)
)

type (
	Movie struct {
		ID          int        `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Duration    int        `json:"duration"` // minutes
		ReleaseDate *time.Time `json:"release_date"`
		CategoryID  int        `json:"category_id"`
		ImagePath   string     `json:"image_path"`
		Rating      float64    `json:"rating"`
		CreatedAt   time.Time  `json:"created_at"`
	}

	// CreateMovieIn is read from the multipart form of a create request
	CreateMovieIn struct {
		Name        string
		Description string
		Duration    int
		ReleaseDate *time.Time
		CategoryID  int
		Rating      float64
	}

	// Upload is the optional image sent with a create request
	Upload struct {
		Filename string
		Body     io.Reader
	}

	// UpdateMovieIn is a partial update. Nil fields are left unchanged and
	// ID must match the request path.
	UpdateMovieIn struct {
		ID          int      `json:"id"`
		Name        *string  `json:"name,omitempty"`
		Description *string  `json:"description,omitempty"`
		Duration    *int     `json:"duration,omitempty"`
		ReleaseDate *string  `json:"release_date,omitempty"`
		CategoryID  *int     `json:"category_id,omitempty"`
		Rating      *float64 `json:"rating,omitempty"`
	}

	// Changes is a validated UpdateMovieIn as applied by the repository.
	// ClearReleaseDate sets the date to NULL and wins over ReleaseDate.
	Changes struct {
		Name             *string
		Description      *string
		Duration         *int
		ReleaseDate      *time.Time
		ClearReleaseDate bool
		CategoryID       *int
		Rating           *float64
	}
)

func (c Changes) empty() bool {
	return c.Name == nil && c.Description == nil && c.Duration == nil &&
		c.ReleaseDate == nil && !c.ClearReleaseDate && c.CategoryID == nil && c.Rating == nil
}

// ParseReleaseDate accepts a plain date or an RFC 3339 timestamp. An empty
// string means no date.
func ParseReleaseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: release_date must be YYYY-MM-DD", apperror.ErrValidation)
}
