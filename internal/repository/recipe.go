package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

const recipeColumns = `id, title, description, instructions, preparation_time_minutes, cooking_time_minutes, servings, created_at, updated_at`

// FindAllRecipes returns every recipe ordered by id.
func (r *Repository) FindAllRecipes(ctx context.Context) ([]*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return collectRecipes(rows)
}

// FindRecipeByID retrieves a recipe by its ID.
func (r *Repository) FindRecipeByID(ctx context.Context, id int64) (*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}
	return recipe, nil
}

// SearchRecipesByTitle returns recipes whose title contains fragment, ignoring case.
func (r *Repository) SearchRecipesByTitle(ctx context.Context, fragment string) ([]*model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE title ILIKE $1 ORDER BY title`

	rows, err := r.pool.Query(ctx, query, likePattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return collectRecipes(rows)
}

// RecipeExistsByID checks if a recipe with the given ID exists.
func (r *Repository) RecipeExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "recipe", `SELECT EXISTS(SELECT 1 FROM recipes WHERE id = $1)`, id)
}

// SaveRecipe inserts the recipe when it has no ID and updates it otherwise.
func (r *Repository) SaveRecipe(ctx context.Context, recipe *model.Recipe) error {
	if !recipe.IsPersisted() {
		query := `
			INSERT INTO recipes (title, description, instructions, preparation_time_minutes, cooking_time_minutes, servings)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		err := r.pool.QueryRow(ctx, query,
			recipe.Title,
			recipe.Description,
			recipe.Instructions,
			recipe.PreparationTimeMinutes,
			recipe.CookingTimeMinutes,
			recipe.Servings,
		).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return nil
	}

	query := `
		UPDATE recipes
		SET title = $2, description = $3, instructions = $4,
		    preparation_time_minutes = $5, cooking_time_minutes = $6, servings = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		recipe.Instructions,
		recipe.PreparationTimeMinutes,
		recipe.CookingTimeMinutes,
		recipe.Servings,
	).Scan(&recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}

// DeleteRecipeByID removes a recipe.
func (r *Repository) DeleteRecipeByID(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var rc model.Recipe
	err := row.Scan(
		&rc.ID,
		&rc.Title,
		&rc.Description,
		&rc.Instructions,
		&rc.PreparationTimeMinutes,
		&rc.CookingTimeMinutes,
		&rc.Servings,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	return &rc, err
}

func collectRecipes(rows pgx.Rows) ([]*model.Recipe, error) {
	defer rows.Close()

	recipes := make([]*model.Recipe, 0)
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}
	return recipes, nil
}
