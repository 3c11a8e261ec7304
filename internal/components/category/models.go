package category

import (
	"fmt"
	"time"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
)

const MaxNameLen = 100

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", apperror.ErrNotFound)
	ErrCategoryExists   = fmt.Errorf("category %w", apperror.ErrAlreadyExists)
	ErrCategoryInUse    = fmt.Errorf("%w: category is still referenced by movies", apperror.ErrConflict)
)

type (
	Category struct {
		ID        int       `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}

	CreateCategoryIn struct {
		Name string `json:"name"`
	}

	// UpdateCategoryIn must carry the same id as the request path
	UpdateCategoryIn struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
)
