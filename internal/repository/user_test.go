package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

var userRowColumns = []string{
	"id", "username", "email", "password", "first_name", "last_name", "bio", "created_at", "updated_at",
}

func TestRepository_FindUserByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT .+ FROM users WHERE email = \\$1").
			WithArgs("olena@example.com").
			WillReturnRows(pgxmock.NewRows(userRowColumns).
				AddRow(int64(2), "olena", "olena@example.com", "hash", "Olena", "K", "", now, now))

		user, err := repo.FindUserByEmail(ctx, "olena@example.com")

		require.NoError(t, err)
		assert.Equal(t, "olena", user.Username)
		assert.Equal(t, "hash", user.Password)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("SELECT .+ FROM users WHERE email = \\$1").
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindUserByEmail(ctx, "nobody@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_UserExistsByUsername(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE username = \\$1\\)").
		WithArgs("olena").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.UserExistsByUsername(context.Background(), "olena")

	require.NoError(t, err)
	assert.True(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("insert", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		user := &model.User{Username: "olena", Email: "olena@example.com", Password: "hash"}
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("olena", "olena@example.com", "hash", "", "", "").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

		require.NoError(t, repo.SaveUser(ctx, user))
		assert.Equal(t, int64(1), user.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email constraint", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("taras", "olena@example.com", "hash", "", "", "").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserEmail})

		err := repo.SaveUser(ctx, &model.User{Username: "taras", Email: "olena@example.com", Password: "hash"})

		var uv *UniqueViolationError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, ConstraintUserEmail, uv.Constraint)
	})
}
