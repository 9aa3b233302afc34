// Package seed loads sample categories, ingredients and recipes into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/culinarynotes/culinarynotes/internal/model"
	"github.com/culinarynotes/culinarynotes/internal/service"
)

// Categories is the category service subset the seeder needs.
type Categories interface {
	List(ctx context.Context) ([]*model.Category, error)
	Create(ctx context.Context, candidate *model.Category) (*model.Category, error)
}

// Ingredients is the ingredient service subset the seeder needs.
type Ingredients interface {
	List(ctx context.Context) ([]*model.Ingredient, error)
	Create(ctx context.Context, candidate *model.Ingredient) (*model.Ingredient, error)
}

// Recipes is the recipe service subset the seeder needs.
type Recipes interface {
	List(ctx context.Context) ([]*model.Recipe, error)
	Create(ctx context.Context, candidate *model.Recipe) (*model.Recipe, error)
}

// Result counts the entities created by a run.
type Result struct {
	Categories  int
	Ingredients int
	Recipes     int
}

// Seeder fills each entity kind with sample data when that kind is empty.
type Seeder struct {
	categories  Categories
	ingredients Ingredients
	recipes     Recipes
	logger      *slog.Logger
}

// New creates a new Seeder.
func New(categories Categories, ingredients Ingredients, recipes Recipes, logger *slog.Logger) *Seeder {
	return &Seeder{
		categories:  categories,
		ingredients: ingredients,
		recipes:     recipes,
		logger:      logger.With("component", "seed"),
	}
}

// Run seeds every empty entity kind. Kinds that already hold rows are left alone,
// so running it twice creates nothing the second time.
// Samples that already exist under the same unique key are skipped.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	var err error

	if res.Categories, err = seedKind(ctx, s.categories.List, s.categories.Create, sampleCategories()); err != nil {
		return res, fmt.Errorf("seed categories: %w", err)
	}
	if res.Ingredients, err = seedKind(ctx, s.ingredients.List, s.ingredients.Create, sampleIngredients()); err != nil {
		return res, fmt.Errorf("seed ingredients: %w", err)
	}
	if res.Recipes, err = seedKind(ctx, s.recipes.List, s.recipes.Create, sampleRecipes()); err != nil {
		return res, fmt.Errorf("seed recipes: %w", err)
	}

	s.logger.InfoContext(ctx, "sample data initialized",
		"categories", res.Categories,
		"ingredients", res.Ingredients,
		"recipes", res.Recipes,
	)
	return res, nil
}

func seedKind[E any](
	ctx context.Context,
	list func(context.Context) ([]*E, error),
	create func(context.Context, *E) (*E, error),
	samples []*E,
) (int, error) {
	existing, err := list(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, sample := range samples {
		if _, err := create(ctx, sample); err != nil {
			if errors.Is(err, service.ErrDuplicateKey) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}
