// Package memstore is an in-memory persistence port for tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/culinarynotes/culinarynotes/internal/model"
	"github.com/culinarynotes/culinarynotes/internal/repository"
)

// Store is an in-memory persistence port. Like the database it enforces
// unique keys on save, assigns ids and timestamps, and records every call.
// It satisfies the service store interfaces.
type Store struct {
	mu     sync.Mutex
	nextID int64
	calls  []string

	categories  map[int64]model.Category
	ingredients map[int64]model.Ingredient
	users       map[int64]model.User
	recipes     map[int64]model.Recipe

	// BlindExists makes every key existence check report false,
	// simulating a concurrent writer that wins the race after the check.
	BlindExists bool
	// FailWith is returned by the find and save calls when set.
	FailWith    error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		categories:  make(map[int64]model.Category),
		ingredients: make(map[int64]model.Ingredient),
		users:       make(map[int64]model.User),
		recipes:     make(map[int64]model.Recipe),
	}
}

func (m *Store) record(call string) {
	m.calls = append(m.calls, call)
}

// Called reports how many times the named method ran.
func (m *Store) Called(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

// CategoryCount returns the number of stored categories.
func (m *Store) CategoryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.categories)
}

// Category returns a copy of the stored category with id.
func (m *Store) Category(id int64) (model.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	return c, ok
}

// IngredientCount returns the number of stored ingredients.
func (m *Store) IngredientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ingredients)
}

// Ingredient returns a copy of the stored ingredient with id.
func (m *Store) Ingredient(id int64) (model.Ingredient, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.ingredients[id]
	return i, ok
}

// UserCount returns the number of stored users.
func (m *Store) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// User returns a copy of the stored user with id.
func (m *Store) User(id int64) (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *Store) assignID() (int64, time.Time) {
	m.nextID++
	return m.nextID, time.Now().UTC()
}

func matches(value, fragment string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(fragment))
}

func sortedIDs[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func violation(constraint string) error {
	return &repository.UniqueViolationError{Constraint: constraint}
}

// ============================================================================
// Categories
// ============================================================================

func (m *Store) FindAllCategories(ctx context.Context) ([]*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAllCategories")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]*model.Category, 0, len(m.categories))
	for _, id := range sortedIDs(m.categories) {
		c := m.categories[id]
		out = append(out, &c)
	}
	return out, nil
}

func (m *Store) FindCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindCategoryByID")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *Store) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindCategoryByName")
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *Store) SearchCategoriesByName(ctx context.Context, fragment string) ([]*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchCategoriesByName")
	out := make([]*model.Category, 0)
	for _, id := range sortedIDs(m.categories) {
		c := m.categories[id]
		if matches(c.Name, fragment) {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *Store) CategoryExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CategoryExistsByID")
	_, ok := m.categories[id]
	return ok, nil
}

func (m *Store) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CategoryExistsByName")
	if m.BlindExists {
		return false, nil
	}
	for _, c := range m.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) SaveCategory(ctx context.Context, category *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SaveCategory")
	if m.FailWith != nil {
		return m.FailWith
	}
	for id, c := range m.categories {
		if id != category.ID && c.Name == category.Name {
			return violation(repository.ConstraintCategoryName)
		}
	}
	now := time.Now().UTC()
	if !category.IsPersisted() {
		category.ID, category.CreatedAt = m.assignID()
	} else if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	category.UpdatedAt = now
	m.categories[category.ID] = *category
	return nil
}

func (m *Store) DeleteCategoryByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteCategoryByID")
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// ============================================================================
// Ingredients
// ============================================================================

func (m *Store) FindAllIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAllIngredients")
	out := make([]*model.Ingredient, 0, len(m.ingredients))
	for _, id := range sortedIDs(m.ingredients) {
		i := m.ingredients[id]
		out = append(out, &i)
	}
	return out, nil
}

func (m *Store) FindIngredientByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindIngredientByID")
	i, ok := m.ingredients[id]
	if !ok {
		return nil, repository.ErrIngredientNotFound
	}
	return &i, nil
}

func (m *Store) FindIngredientByNameAndUnit(ctx context.Context, name, unit string) (*model.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindIngredientByNameAndUnit")
	for _, i := range m.ingredients {
		if i.Name == name && i.Unit == unit {
			return &i, nil
		}
	}
	return nil, repository.ErrIngredientNotFound
}

func (m *Store) SearchIngredientsByName(ctx context.Context, fragment string) ([]*model.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchIngredientsByName")
	out := make([]*model.Ingredient, 0)
	for _, id := range sortedIDs(m.ingredients) {
		i := m.ingredients[id]
		if matches(i.Name, fragment) {
			out = append(out, &i)
		}
	}
	return out, nil
}

func (m *Store) IngredientExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IngredientExistsByID")
	_, ok := m.ingredients[id]
	return ok, nil
}

func (m *Store) IngredientExistsByNameAndUnit(ctx context.Context, name, unit string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IngredientExistsByNameAndUnit")
	if m.BlindExists {
		return false, nil
	}
	for _, i := range m.ingredients {
		if i.Name == name && i.Unit == unit {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) SaveIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SaveIngredient")
	for id, i := range m.ingredients {
		if id != ingredient.ID && i.Name == ingredient.Name && i.Unit == ingredient.Unit {
			return violation(repository.ConstraintIngredientNameUnit)
		}
	}
	now := time.Now().UTC()
	if !ingredient.IsPersisted() {
		ingredient.ID, ingredient.CreatedAt = m.assignID()
	} else if _, ok := m.ingredients[ingredient.ID]; !ok {
		return repository.ErrIngredientNotFound
	}
	ingredient.UpdatedAt = now
	m.ingredients[ingredient.ID] = *ingredient
	return nil
}

func (m *Store) DeleteIngredientByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteIngredientByID")
	if _, ok := m.ingredients[id]; !ok {
		return repository.ErrIngredientNotFound
	}
	delete(m.ingredients, id)
	return nil
}

// ============================================================================
// Users
// ============================================================================

func (m *Store) FindAllUsers(ctx context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAllUsers")
	out := make([]*model.User, 0, len(m.users))
	for _, id := range sortedIDs(m.users) {
		u := m.users[id]
		out = append(out, &u)
	}
	return out, nil
}

func (m *Store) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindUserByID")
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *Store) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findUser("FindUserByUsername", func(u model.User) bool { return u.Username == username })
}

func (m *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findUser("FindUserByEmail", func(u model.User) bool { return u.Email == email })
}

func (m *Store) findUser(call string, match func(model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(call)
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *Store) SearchUsersByUsername(ctx context.Context, fragment string) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchUsersByUsername")
	out := make([]*model.User, 0)
	for _, id := range sortedIDs(m.users) {
		u := m.users[id]
		if matches(u.Username, fragment) {
			out = append(out, &u)
		}
	}
	return out, nil
}

func (m *Store) UserExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UserExistsByID")
	_, ok := m.users[id]
	return ok, nil
}

func (m *Store) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.userExists("UserExistsByUsername", func(u model.User) bool { return u.Username == username })
}

func (m *Store) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.userExists("UserExistsByEmail", func(u model.User) bool { return u.Email == email })
}

func (m *Store) userExists(call string, match func(model.User) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(call)
	if m.BlindExists {
		return false, nil
	}
	for _, u := range m.users {
		if match(u) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Store) SaveUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SaveUser")
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return violation(repository.ConstraintUserUsername)
		}
		if u.Email == user.Email {
			return violation(repository.ConstraintUserEmail)
		}
	}
	now := time.Now().UTC()
	if !user.IsPersisted() {
		user.ID, user.CreatedAt = m.assignID()
	} else if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *Store) DeleteUserByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteUserByID")
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// ============================================================================
// Recipes
// ============================================================================

func (m *Store) FindAllRecipes(ctx context.Context) ([]*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAllRecipes")
	out := make([]*model.Recipe, 0, len(m.recipes))
	for _, id := range sortedIDs(m.recipes) {
		r := m.recipes[id]
		out = append(out, &r)
	}
	return out, nil
}

func (m *Store) FindRecipeByID(ctx context.Context, id int64) (*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindRecipeByID")
	r, ok := m.recipes[id]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	return &r, nil
}

func (m *Store) SearchRecipesByTitle(ctx context.Context, fragment string) ([]*model.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SearchRecipesByTitle")
	out := make([]*model.Recipe, 0)
	for _, id := range sortedIDs(m.recipes) {
		r := m.recipes[id]
		if matches(r.Title, fragment) {
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *Store) RecipeExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RecipeExistsByID")
	_, ok := m.recipes[id]
	return ok, nil
}

func (m *Store) SaveRecipe(ctx context.Context, recipe *model.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SaveRecipe")
	now := time.Now().UTC()
	if !recipe.IsPersisted() {
		recipe.ID, recipe.CreatedAt = m.assignID()
	} else if _, ok := m.recipes[recipe.ID]; !ok {
		return repository.ErrRecipeNotFound
	}
	recipe.UpdatedAt = now
	m.recipes[recipe.ID] = *recipe
	return nil
}

func (m *Store) DeleteRecipeByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteRecipeByID")
	if _, ok := m.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(m.recipes, id)
	return nil
}
