package user

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestRepo_List(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, username, created_at FROM users ORDER BY username").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "created_at"}).
			AddRow(1, "ana", now).
			AddRow(2, "bob", now))

	users, err := NewRepo(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestRepo_FindByUsername(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	hash := []byte{1, 2, 3}
	salt := []byte{4, 5, 6}

	mock.ExpectQuery("password_hash, salt").WithArgs("ana").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "created_at", "password_hash", "salt"}).
			AddRow(1, "ana", now, hash, salt))
	mock.ExpectQuery("password_hash, salt").WithArgs("bob").WillReturnError(pgx.ErrNoRows)

	r := NewRepo(mock)

	c, err := r.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, hash, c.PasswordHash)
	assert.Equal(t, salt, c.Salt)

	_, err = r.FindByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepo_Create(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	hash := []byte{1}
	salt := []byte{2}

	mock.ExpectQuery("INSERT INTO users").WithArgs("ana", hash, salt).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "created_at"}).AddRow(3, "ana", now))
	mock.ExpectQuery("INSERT INTO users").WithArgs("ana", hash, salt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	r := NewRepo(mock)

	u, err := r.Create(context.Background(), "ana", hash, salt)
	require.NoError(t, err)
	assert.Equal(t, 3, u.ID)

	_, err = r.Create(context.Background(), "ana", hash, salt)
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE id = ").WithArgs(8).WillReturnError(pgx.ErrNoRows)

	_, err := NewRepo(mock).GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepo_ExistsByUsername(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("ana").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := NewRepo(mock).ExistsByUsername(context.Background(), "ana")
	require.NoError(t, err)
	assert.False(t, ok)
}
