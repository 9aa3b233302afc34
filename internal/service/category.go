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

// CategoryStore is the persistence port for categories.
type CategoryStore interface {
	FindAllCategories(ctx context.Context) ([]*model.Category, error)
	FindCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)
	SearchCategoriesByName(ctx context.Context, fragment string) ([]*model.Category, error)
	CategoryExistsByID(ctx context.Context, id int64) (bool, error)
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	SaveCategory(ctx context.Context, category *model.Category) error
	DeleteCategoryByID(ctx context.Context, id int64) error
}

// CategoryService manages categories. Category names are unique.
type CategoryService struct {
	store   CategoryStore
	keys    keySet[model.Category]
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store CategoryStore, logger *slog.Logger, recorder metrics.Recorder) *CategoryService {
	logger, recorder = defaults(logger, recorder)
	return &CategoryService{
		store: store,
		keys: keySet[model.Category]{
			entity:  metrics.EntityCategory,
			metrics: recorder,
			keys: []uniqueKey[model.Category]{{
				name:       "name",
				constraint: repository.ConstraintCategoryName,
				same:       func(a, b *model.Category) bool { return a.Name == b.Name },
				describe:   func(c *model.Category) string { return c.Name },
				taken: func(ctx context.Context, c *model.Category) (bool, error) {
					return store.CategoryExistsByName(ctx, c.Name)
				},
			}},
		},
		logger:  logger.With("component", "category_service"),
		metrics: recorder,
	}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) (categories []*model.Category, err error) {
	op := startOperation(s.logger, s.metrics, "listCategories")
	defer func() { op.done(ctx, err) }()

	categories, err = s.store.FindAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	op.log.DebugContext(ctx, "categories found", "count", len(categories))
	return categories, nil
}

// GetByID returns the category with the given id or a NotFoundError.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (category *model.Category, err error) {
	op := startOperation(s.logger, s.metrics, "getCategoryById", "category_id", id)
	defer func() { op.done(ctx, err) }()

	return s.getByID(ctx, id)
}

// GetByName looks up a category by its unique name.
// found is false when no category has that name.
func (s *CategoryService) GetByName(ctx context.Context, name string) (category *model.Category, found bool, err error) {
	op := startOperation(s.logger, s.metrics, "getCategoryByName", "category_name", name)
	defer func() { op.done(ctx, err) }()

	category, err = s.store.FindCategoryByName(ctx, name)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get category by name: %w", err)
	}
	return category, true, nil
}

// Search returns categories whose name contains fragment, ignoring case.
func (s *CategoryService) Search(ctx context.Context, fragment string) (categories []*model.Category, err error) {
	op := startOperation(s.logger, s.metrics, "searchCategories", "search_name", fragment)
	defer func() { op.done(ctx, err) }()

	categories, err = s.store.SearchCategoriesByName(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	op.log.DebugContext(ctx, "categories found", "count", len(categories))
	return categories, nil
}

// Create stores a new category. It fails with a DuplicateKeyError when the name is taken.
func (s *CategoryService) Create(ctx context.Context, candidate *model.Category) (category *model.Category, err error) {
	op := startOperation(s.logger, s.metrics, "createCategory", "category_name", candidate.Name)
	defer func() { op.done(ctx, err) }()

	if err = s.keys.checkCreate(ctx, candidate); err != nil {
		return nil, err
	}

	category = &model.Category{
		Name:        candidate.Name,
		Description: candidate.Description,
	}
	if err = s.store.SaveCategory(ctx, category); err != nil {
		return nil, s.keys.saveError(err, category, "create")
	}

	s.metrics.IncEntityCreated(metrics.EntityCategory)
	op.log.InfoContext(ctx, "category created", "category_id", category.ID)
	return category, nil
}

// Update replaces the mutable fields of the category with those of detail.
func (s *CategoryService) Update(ctx context.Context, id int64, detail *model.Category) (category *model.Category, err error) {
	op := startOperation(s.logger, s.metrics, "updateCategory", "category_id", id)
	defer func() { op.done(ctx, err) }()

	category, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.keys.checkUpdate(ctx, category, detail); err != nil {
		return nil, err
	}

	category.Name = detail.Name
	category.Description = detail.Description

	if err = s.store.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFoundByID(metrics.EntityCategory, id)
		}
		return nil, s.keys.saveError(err, category, "update")
	}

	s.metrics.IncEntityUpdated(metrics.EntityCategory)
	op.log.InfoContext(ctx, "category updated")
	return category, nil
}

// Delete removes the category with the given id.
func (s *CategoryService) Delete(ctx context.Context, id int64) (err error) {
	op := startOperation(s.logger, s.metrics, "deleteCategory", "category_id", id)
	defer func() { op.done(ctx, err) }()

	exists, err := s.store.CategoryExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundByID(metrics.EntityCategory, id)
	}

	if err = s.store.DeleteCategoryByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return notFoundByID(metrics.EntityCategory, id)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.metrics.IncEntityDeleted(metrics.EntityCategory)
	op.log.InfoContext(ctx, "category deleted")
	return nil
}

func (s *CategoryService) getByID(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.store.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, notFoundByID(metrics.EntityCategory, id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}
