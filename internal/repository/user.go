package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

const userColumns = `id, username, email, password, first_name, last_name, bio, created_at, updated_at`

// FindAllUsers returns every user ordered by id.
func (r *Repository) FindAllUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectUsers(rows)
}

// FindUserByID retrieves a user by their ID.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findUser(ctx, "ID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindUserByUsername retrieves a user by their username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findUser(ctx, "username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindUserByEmail retrieves a user by their email address.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findUser(ctx, "email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// SearchUsersByUsername returns users whose username contains fragment, ignoring case.
func (r *Repository) SearchUsersByUsername(ctx context.Context, fragment string) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username ILIKE $1 ORDER BY username`

	rows, err := r.pool.Query(ctx, query, likePattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return collectUsers(rows)
}

// UserExistsByID checks if a user with the given ID exists.
func (r *Repository) UserExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "user", `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
}

// UserExistsByUsername checks if the username is taken.
func (r *Repository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

// UserExistsByEmail checks if the email is taken.
func (r *Repository) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

// SaveUser inserts the user when it has no ID and updates it otherwise.
func (r *Repository) SaveUser(ctx context.Context, user *model.User) error {
	if !user.IsPersisted() {
		query := `
			INSERT INTO users (username, email, password, first_name, last_name, bio)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		err := r.pool.QueryRow(ctx, query,
			user.Username,
			user.Email,
			user.Password,
			user.FirstName,
			user.LastName,
			user.Bio,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", asUniqueViolation(err))
		}
		return nil
	}

	query := `
		UPDATE users
		SET username = $2, email = $3, password = $4, first_name = $5, last_name = $6, bio = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Bio,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", asUniqueViolation(err))
	}
	return nil
}

// DeleteUserByID removes a user.
func (r *Repository) DeleteUserByID(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repository) findUser(ctx context.Context, by, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return &u, err
}

func collectUsers(rows pgx.Rows) ([]*model.User, error) {
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
