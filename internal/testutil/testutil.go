// Package testutil holds helpers shared by Postgres integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// DomainTables lists every table created by the migrations.
var DomainTables = []string{"categories", "ingredients", "users", "recipes"}

// TruncateTables empties the given tables and resets their id sequences.
func TruncateTables(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// Test data factories.

// NewTestCategory creates an unsaved category.
func NewTestCategory(t testing.TB, name string) *model.Category {
	t.Helper()
	return &model.Category{
		Name:        name,
		Description: "Test category " + name,
	}
}

// NewTestIngredient creates an unsaved ingredient.
func NewTestIngredient(t testing.TB, name, unit string) *model.Ingredient {
	t.Helper()
	return &model.Ingredient{
		Name:        name,
		Unit:        unit,
		Description: fmt.Sprintf("Test ingredient %s (%s)", name, unit),
	}
}

// NewTestUser creates an unsaved user.
func NewTestUser(t testing.TB, username, email string) *model.User {
	t.Helper()
	return &model.User{
		Username:  username,
		Email:     email,
		Password:  "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		FirstName: "Test",
		LastName:  "User",
	}
}

// NewTestRecipe creates an unsaved recipe.
func NewTestRecipe(t testing.TB, title string) *model.Recipe {
	t.Helper()
	return &model.Recipe{
		Title:                  title,
		Description:            "Test recipe " + title,
		Instructions:           "Mix everything.",
		PreparationTimeMinutes: 10,
		CookingTimeMinutes:     20,
		Servings:               2,
	}
}
