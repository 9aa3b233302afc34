package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

const categoryColumns = `id, name, description, created_at, updated_at`

// FindAllCategories returns every category ordered by id.
func (r *Repository) FindAllCategories(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return collectCategories(rows)
}

// FindCategoryByID retrieves a category by its ID.
func (r *Repository) FindCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return category, nil
}

// FindCategoryByName retrieves a category by its exact name.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return category, nil
}

// SearchCategoriesByName returns categories whose name contains fragment, ignoring case.
func (r *Repository) SearchCategoriesByName(ctx context.Context, fragment string) ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name ILIKE $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, likePattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return collectCategories(rows)
}

// CategoryExistsByID checks if a category with the given ID exists.
func (r *Repository) CategoryExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "category", `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id)
}

// CategoryExistsByName checks if a category with the given name exists.
func (r *Repository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "category name", `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name)
}

// SaveCategory inserts the category when it has no ID and updates it otherwise.
// Identity and timestamps are written back from the database.
func (r *Repository) SaveCategory(ctx context.Context, category *model.Category) error {
	if !category.IsPersisted() {
		query := `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			RETURNING id, created_at, updated_at
		`
		err := r.pool.QueryRow(ctx, query, category.Name, category.Description).
			Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", asUniqueViolation(err))
		}
		return nil
	}

	query := `
		UPDATE categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, category.ID, category.Name, category.Description).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update category: %w", asUniqueViolation(err))
	}
	return nil
}

// DeleteCategoryByID removes a category.
func (r *Repository) DeleteCategoryByID(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func collectCategories(rows pgx.Rows) ([]*model.Category, error) {
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
