package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

const ingredientColumns = `id, name, unit, description, created_at, updated_at`

// FindAllIngredients returns every ingredient ordered by id.
func (r *Repository) FindAllIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return collectIngredients(rows)
}

// FindIngredientByID retrieves an ingredient by its ID.
func (r *Repository) FindIngredientByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`

	ingredient, err := scanIngredient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}
	return ingredient, nil
}

// FindIngredientByNameAndUnit retrieves an ingredient by its compound key.
func (r *Repository) FindIngredientByNameAndUnit(ctx context.Context, name, unit string) (*model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE name = $1 AND unit = $2`

	ingredient, err := scanIngredient(r.pool.QueryRow(ctx, query, name, unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient by name and unit: %w", err)
	}
	return ingredient, nil
}

// SearchIngredientsByName returns ingredients whose name contains fragment, ignoring case.
func (r *Repository) SearchIngredientsByName(ctx context.Context, fragment string) ([]*model.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE name ILIKE $1 ORDER BY name, unit`

	rows, err := r.pool.Query(ctx, query, likePattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return collectIngredients(rows)
}

// IngredientExistsByID checks if an ingredient with the given ID exists.
func (r *Repository) IngredientExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "ingredient", `SELECT EXISTS(SELECT 1 FROM ingredients WHERE id = $1)`, id)
}

// IngredientExistsByNameAndUnit checks if the (name, unit) pair is taken.
func (r *Repository) IngredientExistsByNameAndUnit(ctx context.Context, name, unit string) (bool, error) {
	return r.exists(ctx, "ingredient name and unit",
		`SELECT EXISTS(SELECT 1 FROM ingredients WHERE name = $1 AND unit = $2)`, name, unit)
}

// SaveIngredient inserts the ingredient when it has no ID and updates it otherwise.
func (r *Repository) SaveIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	if !ingredient.IsPersisted() {
		query := `
			INSERT INTO ingredients (name, unit, description)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		err := r.pool.QueryRow(ctx, query, ingredient.Name, ingredient.Unit, ingredient.Description).
			Scan(&ingredient.ID, &ingredient.CreatedAt, &ingredient.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create ingredient: %w", asUniqueViolation(err))
		}
		return nil
	}

	query := `
		UPDATE ingredients
		SET name = $2, unit = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, ingredient.ID, ingredient.Name, ingredient.Unit, ingredient.Description).
		Scan(&ingredient.CreatedAt, &ingredient.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrIngredientNotFound
		}
		return fmt.Errorf("failed to update ingredient: %w", asUniqueViolation(err))
	}
	return nil
}

// DeleteIngredientByID removes an ingredient.
func (r *Repository) DeleteIngredientByID(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

func scanIngredient(row pgx.Row) (*model.Ingredient, error) {
	var i model.Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func collectIngredients(rows pgx.Rows) ([]*model.Ingredient, error) {
	defer rows.Close()

	ingredients := make([]*model.Ingredient, 0)
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}
	return ingredients, nil
}
