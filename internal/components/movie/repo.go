package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrasnagy-data/peliculas/internal/shared/database"
	"github.com/jackc/pgx/v5"
)

const movieColumns = "id, name, description, duration, release_date, category_id, image_path, rating, created_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type (
	// Repository persists movies. Lookups of a missing id return
	// ErrMovieNotFound.
	Repository interface {
		List(ctx context.Context) ([]Movie, error)
		GetByID(ctx context.Context, id int) (*Movie, error)
		Exists(ctx context.Context, id int) (bool, error)
		ExistsByName(ctx context.Context, name string) (bool, error)
		ListByCategory(ctx context.Context, categoryID int) ([]Movie, error)
		Search(ctx context.Context, term string) ([]Movie, error)
		Create(ctx context.Context, m Movie) (*Movie, error)
		Update(ctx context.Context, id int, c Changes) (*Movie, error)
		Delete(ctx context.Context, id int) error
	}

	repo struct {
		db database.DBTX
	}
)

func NewRepo(db database.DBTX) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context) ([]Movie, error) {
	stmt := fmt.Sprintf(`
	SELECT %s
	FROM movies
	ORDER BY name`, movieColumns)

	return r.query(ctx, stmt)
}

func (r *repo) GetByID(ctx context.Context, id int) (*Movie, error) {
	stmt := fmt.Sprintf(`
	SELECT %s
	FROM movies
	WHERE id = $1`, movieColumns)

	m, err := scanMovie(r.db.QueryRow(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *repo) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ExistsByName compares names case-insensitively, ignoring surrounding spaces
func (r *repo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM movies WHERE lower(trim(name)) = lower(trim($1)))`,
		name,
	).Scan(&exists)
	return exists, err
}

func (r *repo) ListByCategory(ctx context.Context, categoryID int) ([]Movie, error) {
	stmt := fmt.Sprintf(`
	SELECT %s
	FROM movies
	WHERE category_id = $1
	ORDER BY name`, movieColumns)

	return r.query(ctx, stmt, categoryID)
}

// Search matches term against name or description, case-insensitively
func (r *repo) Search(ctx context.Context, term string) ([]Movie, error) {
	stmt := fmt.Sprintf(`
	SELECT %s
	FROM movies
	WHERE name ILIKE $1 OR description ILIKE $1
	ORDER BY name`, movieColumns)

	return r.query(ctx, stmt, "%"+likeEscaper.Replace(term)+"%")
}

func (r *repo) Create(ctx context.Context, m Movie) (*Movie, error) {
	stmt := fmt.Sprintf(`
	INSERT INTO movies (
		name, description, duration, release_date, category_id, image_path, rating
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)
	RETURNING %s`, movieColumns)

	created, err := scanMovie(r.db.QueryRow(
		ctx,
		stmt,
		m.Name,
		m.Description,
		m.Duration,
		m.ReleaseDate,
		m.CategoryID,
		m.ImagePath,
		m.Rating,
	))
	if err != nil {
		return nil, classify("insert movie", err)
	}
	return created, nil
}

// Update builds the SET clause from the non-nil fields only. With nothing to
// change it returns the current movie.
func (r *repo) Update(ctx context.Context, id int, c Changes) (*Movie, error) {
	if c.empty() {
		return r.GetByID(ctx, id)
	}

	setParts := []string{}
	args := []any{id}
	argIndex := 2

	add := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if c.Name != nil {
		add("name", *c.Name)
	}
	if c.Description != nil {
		add("description", *c.Description)
	}
	if c.Duration != nil {
		add("duration", *c.Duration)
	}
	switch {
	case c.ClearReleaseDate:
		add("release_date", nil)
	case c.ReleaseDate != nil:
		add("release_date", *c.ReleaseDate)
	}
	if c.CategoryID != nil {
		add("category_id", *c.CategoryID)
	}
	if c.Rating != nil {
		add("rating", *c.Rating)
	}

	stmt := fmt.Sprintf(`
	UPDATE movies
	SET %s
	WHERE id = $1
	RETURNING %s`, strings.Join(setParts, ", "), movieColumns)

	updated, err := scanMovie(r.db.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, classify("update movie", err)
	}
	return updated, nil
}

func (r *repo) Delete(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func (r *repo) query(ctx context.Context, stmt string, args ...any) ([]Movie, error) {
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func scanMovie(row pgx.Row) (*Movie, error) {
	var m Movie
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Duration,
		&m.ReleaseDate,
		&m.CategoryID,
		&m.ImagePath,
		&m.Rating,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func classify(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return ErrMovieExists
	case database.IsForeignKeyViolation(err):
		return ErrUnknownCategory
	}
	return fmt.Errorf("%s: %w", op, err)
}
