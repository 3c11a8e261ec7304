package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/andrasnagy-data/peliculas/internal/shared/apperror"
)

type (
	servicer interface {
		GetCategories(ctx context.Context) ([]Category, error)
		GetCategory(ctx context.Context, id int) (*Category, error)
		CreateCategory(ctx context.Context, req CreateCategoryIn) (*Category, error)
		UpdateCategory(ctx context.Context, id int, req UpdateCategoryIn) (*Category, error)
		DeleteCategory(ctx context.Context, id int) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) servicer {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *service) GetCategory(ctx context.Context, id int) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCategory rejects a name already in use, compared case-insensitively
func (s *service) CreateCategory(ctx context.Context, req CreateCategoryIn) (*Category, error) {
	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	return s.repo.Create(ctx, name)
}

func (s *service) UpdateCategory(ctx context.Context, id int, req UpdateCategoryIn) (*Category, error) {
	if req.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", apperror.ErrValidation, req.ID, id)
	}

	name, err := validName(req.Name)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, name)
}

// DeleteCategory reports ErrCategoryNotFound before attempting the delete
func (s *service) DeleteCategory(ctx context.Context, id int) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCategoryNotFound
	}

	return s.repo.Delete(ctx, id)
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
