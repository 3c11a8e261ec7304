package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrasnagy-data/peliculas/internal/shared/database"
	"github.com/jackc/pgx/v5"
)

type (
	// Repository is the credential store. Usernames are stored lowercased and
	// kept unique by the users table.
	Repository interface {
		List(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id int) (*User, error)
		ExistsByUsername(ctx context.Context, username string) (bool, error)
		FindByUsername(ctx context.Context, username string) (*Credentials, error)
		Create(ctx context.Context, username string, hash, salt []byte) (*User, error)
	}

	repo struct {
		db database.DBTX
	}
)

func NewRepo(db database.DBTX) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) GetByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, `SELECT id, username, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*Credentials, error) {
	stmt := `
	SELECT id, username, created_at, password_hash, salt
	FROM users
	WHERE username = $1`

	var c Credentials
	err := r.db.QueryRow(ctx, stmt, username).
		Scan(&c.ID, &c.Username, &c.CreatedAt, &c.PasswordHash, &c.Salt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, username string, hash, salt []byte) (*User, error) {
	stmt := `
	INSERT INTO users (username, password_hash, salt)
	VALUES ($1, $2, $3)
	RETURNING id, username, created_at`

	var u User
	err := r.db.QueryRow(ctx, stmt, username, hash, salt).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}
