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

// IngredientStore is the persistence port for ingredients.
type IngredientStore interface {
	FindAllIngredients(ctx context.Context) ([]*model.Ingredient, error)
	FindIngredientByID(ctx context.Context, id int64) (*model.Ingredient, error)
	FindIngredientByNameAndUnit(ctx context.Context, name, unit string) (*model.Ingredient, error)
	SearchIngredientsByName(ctx context.Context, fragment string) ([]*model.Ingredient, error)
	IngredientExistsByID(ctx context.Context, id int64) (bool, error)
	IngredientExistsByNameAndUnit(ctx context.Context, name, unit string) (bool, error)
	SaveIngredient(ctx context.Context, ingredient *model.Ingredient) error
	DeleteIngredientByID(ctx context.Context, id int64) error
}

// IngredientService manages ingredients. The (name, unit) pair is unique,
// so "Flour" may exist once in cups and once in grams.
type IngredientService struct {
	store   IngredientStore
	keys    keySet[model.Ingredient]
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(store IngredientStore, logger *slog.Logger, recorder metrics.Recorder) *IngredientService {
	logger, recorder = defaults(logger, recorder)
	return &IngredientService{
		store: store,
		keys: keySet[model.Ingredient]{
			entity:  metrics.EntityIngredient,
			metrics: recorder,
			keys: []uniqueKey[model.Ingredient]{{
				name:       "name and unit",
				constraint: repository.ConstraintIngredientNameUnit,
				same: func(a, b *model.Ingredient) bool {
					return a.Name == b.Name && a.Unit == b.Unit
				},
				describe: func(i *model.Ingredient) string {
					return fmt.Sprintf("%s (%s)", i.Name, i.Unit)
				},
				taken: func(ctx context.Context, i *model.Ingredient) (bool, error) {
					return store.IngredientExistsByNameAndUnit(ctx, i.Name, i.Unit)
				},
			}},
		},
		logger:  logger.With("component", "ingredient_service"),
		metrics: recorder,
	}
}

// List returns all ingredients.
func (s *IngredientService) List(ctx context.Context) (ingredients []*model.Ingredient, err error) {
	op := startOperation(s.logger, s.metrics, "listIngredients")
	defer func() { op.done(ctx, err) }()

	ingredients, err = s.store.FindAllIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	op.log.DebugContext(ctx, "ingredients found", "count", len(ingredients))
	return ingredients, nil
}

// GetByID returns the ingredient with the given id or a NotFoundError.
func (s *IngredientService) GetByID(ctx context.Context, id int64) (ingredient *model.Ingredient, err error) {
	op := startOperation(s.logger, s.metrics, "getIngredientById", "ingredient_id", id)
	defer func() { op.done(ctx, err) }()

	return s.getByID(ctx, id)
}

// GetByNameAndUnit looks up an ingredient by its compound key.
// found is false when there is no match.
func (s *IngredientService) GetByNameAndUnit(ctx context.Context, name, unit string) (ingredient *model.Ingredient, found bool, err error) {
	op := startOperation(s.logger, s.metrics, "getIngredientByNameAndUnit",
		"ingredient_name", name, "ingredient_unit", unit)
	defer func() { op.done(ctx, err) }()

	ingredient, err = s.store.FindIngredientByNameAndUnit(ctx, name, unit)
	if errors.Is(err, repository.ErrIngredientNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get ingredient by name and unit: %w", err)
	}
	return ingredient, true, nil
}

// Search returns ingredients whose name contains fragment, ignoring case.
func (s *IngredientService) Search(ctx context.Context, fragment string) (ingredients []*model.Ingredient, err error) {
	op := startOperation(s.logger, s.metrics, "searchIngredients", "search_name", fragment)
	defer func() { op.done(ctx, err) }()

	ingredients, err = s.store.SearchIngredientsByName(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	op.log.DebugContext(ctx, "ingredients found", "count", len(ingredients))
	return ingredients, nil
}

// Create stores a new ingredient unless its (name, unit) pair is taken.
func (s *IngredientService) Create(ctx context.Context, candidate *model.Ingredient) (ingredient *model.Ingredient, err error) {
	op := startOperation(s.logger, s.metrics, "createIngredient",
		"ingredient_name", candidate.Name, "ingredient_unit", candidate.Unit)
	defer func() { op.done(ctx, err) }()

	if err = s.keys.checkCreate(ctx, candidate); err != nil {
		return nil, err
	}

	ingredient = &model.Ingredient{
		Name:        candidate.Name,
		Unit:        candidate.Unit,
		Description: candidate.Description,
	}
	if err = s.store.SaveIngredient(ctx, ingredient); err != nil {
		return nil, s.keys.saveError(err, ingredient, "create")
	}

	s.metrics.IncEntityCreated(metrics.EntityIngredient)
	op.log.InfoContext(ctx, "ingredient created", "ingredient_id", ingredient.ID)
	return ingredient, nil
}

// Update replaces the mutable fields of the ingredient with those of detail.
func (s *IngredientService) Update(ctx context.Context, id int64, detail *model.Ingredient) (ingredient *model.Ingredient, err error) {
	op := startOperation(s.logger, s.metrics, "updateIngredient", "ingredient_id", id)
	defer func() { op.done(ctx, err) }()

	ingredient, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.keys.checkUpdate(ctx, ingredient, detail); err != nil {
		return nil, err
	}

	ingredient.Name = detail.Name
	ingredient.Unit = detail.Unit
	ingredient.Description = detail.Description

	if err = s.store.SaveIngredient(ctx, ingredient); err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return nil, notFoundByID(metrics.EntityIngredient, id)
		}
		return nil, s.keys.saveError(err, ingredient, "update")
	}

	s.metrics.IncEntityUpdated(metrics.EntityIngredient)
	op.log.InfoContext(ctx, "ingredient updated")
	return ingredient, nil
}

// Delete removes the ingredient with the given id.
func (s *IngredientService) Delete(ctx context.Context, id int64) (err error) {
	op := startOperation(s.logger, s.metrics, "deleteIngredient", "ingredient_id", id)
	defer func() { op.done(ctx, err) }()

	exists, err := s.store.IngredientExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundByID(metrics.EntityIngredient, id)
	}

	if err = s.store.DeleteIngredientByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return notFoundByID(metrics.EntityIngredient, id)
		}
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}

	s.metrics.IncEntityDeleted(metrics.EntityIngredient)
	op.log.InfoContext(ctx, "ingredient deleted")
	return nil
}

func (s *IngredientService) getByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	ingredient, err := s.store.FindIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrIngredientNotFound) {
			return nil, notFoundByID(metrics.EntityIngredient, id)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return ingredient, nil
}
