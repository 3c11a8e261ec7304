package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrasnagy-data/peliculas/internal/shared/database"
	"github.com/jackc/pgx/v5"
)

type (
	// Repository persists categories. Lookups of a missing id return
	// ErrCategoryNotFound.
	Repository interface {
		List(ctx context.Context) ([]Category, error)
		GetByID(ctx context.Context, id int) (*Category, error)
		Exists(ctx context.Context, id int) (bool, error)
		ExistsByName(ctx context.Context, name string) (bool, error)
		Create(ctx context.Context, name string) (*Category, error)
		Update(ctx context.Context, id int, name string) (*Category, error)
		Delete(ctx context.Context, id int) error
	}

	repo struct {
		db database.DBTX
	}
)

func NewRepo(db database.DBTX) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context) ([]Category, error) {
	stmt := `
	SELECT id, name, created_at
	FROM categories
	ORDER BY name`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *repo) GetByID(ctx context.Context, id int) (*Category, error) {
	stmt := `
	SELECT id, name, created_at
	FROM categories
	WHERE id = $1`

	var c Category
	err := r.db.QueryRow(ctx, stmt, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *repo) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ExistsByName compares names case-insensitively, ignoring surrounding spaces
func (r *repo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE lower(trim(name)) = lower(trim($1)))`,
		name,
	).Scan(&exists)
	return exists, err
}

func (r *repo) Create(ctx context.Context, name string) (*Category, error) {
	stmt := `
	INSERT INTO categories (name)
	VALUES ($1)
	RETURNING id, name, created_at`

	var c Category
	err := r.db.QueryRow(ctx, stmt, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	return &c, nil
}

func (r *repo) Update(ctx context.Context, id int, name string) (*Category, error) {
	stmt := `
	UPDATE categories
	SET name = $2
	WHERE id = $1
	RETURNING id, name, created_at`

	var c Category
	err := r.db.QueryRow(ctx, stmt, id, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrCategoryNotFound
		case database.IsUniqueViolation(err):
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id int) error {
	stmt := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.Exec(ctx, stmt, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
