package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
	"github.com/culinarynotes/culinarynotes/internal/model"
	"github.com/culinarynotes/culinarynotes/internal/repository"
)

// RecipeStore is the persistence port for recipes.
type RecipeStore interface {
	FindAllRecipes(ctx context.Context) ([]*model.Recipe, error)
	FindRecipeByID(ctx context.Context, id int64) (*model.Recipe, error)
	SearchRecipesByTitle(ctx context.Context, fragment string) ([]*model.Recipe, error)
	RecipeExistsByID(ctx context.Context, id int64) (bool, error)
	SaveRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipeByID(ctx context.Context, id int64) error
}

// RecipeService manages recipes. Recipes have no unique key.
type RecipeService struct {
	store   RecipeStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(store RecipeStore, logger *slog.Logger, recorder metrics.Recorder) *RecipeService {
	logger, recorder = defaults(logger, recorder)
	return &RecipeService{
		store:   store,
		logger:  logger.With("component", "recipe_service"),
		metrics: recorder,
	}
}

// List returns all recipes.
func (s *RecipeService) List(ctx context.Context) (recipes []*model.Recipe, err error) {
	op := startOperation(s.logger, s.metrics, "listRecipes")
	defer func() { op.done(ctx, err) }()

	recipes, err = s.store.FindAllRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	op.log.DebugContext(ctx, "recipes found", "count", len(recipes))
	return recipes, nil
}

// GetByID returns the recipe with the given id or a NotFoundError.
func (s *RecipeService) GetByID(ctx context.Context, id int64) (recipe *model.Recipe, err error) {
	op := startOperation(s.logger, s.metrics, "getRecipeById", "recipe_id", id)
	defer func() { op.done(ctx, err) }()

	return s.getByID(ctx, id)
}

// Search returns recipes whose title contains fragment, ignoring case.
func (s *RecipeService) Search(ctx context.Context, fragment string) (recipes []*model.Recipe, err error) {
	op := startOperation(s.logger, s.metrics, "searchRecipes", "search_title", fragment)
	defer func() { op.done(ctx, err) }()

	recipes, err = s.store.SearchRecipesByTitle(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	op.log.DebugContext(ctx, "recipes found", "count", len(recipes))
	return recipes, nil
}

// Create stores a new recipe.
func (s *RecipeService) Create(ctx context.Context, candidate *model.Recipe) (recipe *model.Recipe, err error) {
	op := startOperation(s.logger, s.metrics, "createRecipe", "recipe_title", candidate.Title)
	defer func() { op.done(ctx, err) }()

	recipe = &model.Recipe{}
	copyRecipeFields(recipe, candidate)
	if err = s.store.SaveRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.metrics.IncEntityCreated(metrics.EntityRecipe)
	op.log.InfoContext(ctx, "recipe created", "recipe_id", recipe.ID)
	return recipe, nil
}

// Update replaces the mutable fields of the recipe with those of detail.
func (s *RecipeService) Update(ctx context.Context, id int64, detail *model.Recipe) (recipe *model.Recipe, err error) {
	op := startOperation(s.logger, s.metrics, "updateRecipe", "recipe_id", id)
	defer func() { op.done(ctx, err) }()

	recipe, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copyRecipeFields(recipe, detail)
	if err = s.store.SaveRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, notFoundByID(metrics.EntityRecipe, id)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.metrics.IncEntityUpdated(metrics.EntityRecipe)
	op.log.InfoContext(ctx, "recipe updated")
	return recipe, nil
}

// Delete removes the recipe with the given id.
func (s *RecipeService) Delete(ctx context.Context, id int64) (err error) {
	op := startOperation(s.logger, s.metrics, "deleteRecipe", "recipe_id", id)
	defer func() { op.done(ctx, err) }()

	exists, err := s.store.RecipeExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundByID(metrics.EntityRecipe, id)
	}

	if err = s.store.DeleteRecipeByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return notFoundByID(metrics.EntityRecipe, id)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.metrics.IncEntityDeleted(metrics.EntityRecipe)
	op.log.InfoContext(ctx, "recipe deleted")
	return nil
}

func (s *RecipeService) getByID(ctx context.Context, id int64) (*model.Recipe, error) {
	recipe, err := s.store.FindRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, notFoundByID(metrics.EntityRecipe, id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

func copyRecipeFields(dst, src *model.Recipe) {
	dst.Title = src.Title
	dst.Description = src.Description
	dst.Instructions = src.Instructions
	dst.PreparationTimeMinutes = src.PreparationTimeMinutes
	dst.CookingTimeMinutes = src.CookingTimeMinutes
	dst.Servings = src.Servings
}
