package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// Common errors for repository operations.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")

	// ErrUniqueViolation is matched by every UniqueViolationError.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// Unique constraint names declared by the migrations.
const (
	ConstraintCategoryName       = "categories_name_key"
	ConstraintIngredientNameUnit = "ingredients_name_unit_key"
	ConstraintUserUsername       = "users_username_key"
	ConstraintUserEmail          = "users_email_key"
)

// UniqueViolationError reports that a write was rejected by a unique constraint.
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

// Is makes errors.Is(err, ErrUniqueViolation) succeed.
func (e *UniqueViolationError) Is(target error) bool {
	return target == ErrUniqueViolation
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// asUniqueViolation converts a PostgreSQL unique violation into a UniqueViolationError.
// Any other error is returned unchanged.
func asUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &UniqueViolationError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// likePattern builds a case-insensitive substring pattern for ILIKE,
// escaping the LIKE metacharacters in fragment.
func likePattern(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(fragment) + "%"
}
