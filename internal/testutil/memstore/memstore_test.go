package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinarynotes/culinarynotes/internal/model"
	"github.com/culinarynotes/culinarynotes/internal/repository"
)

func TestStore_Accessors(t *testing.T) {
	ctx := context.Background()
	s := New()

	soups := &model.Category{Name: "Soups"}
	require.NoError(t, s.SaveCategory(ctx, soups))
	beets := &model.Ingredient{Name: "Beets", Unit: "pieces"}
	require.NoError(t, s.SaveIngredient(ctx, beets))
	chef := &model.User{Username: "chef", Email: "chef@example.com"}
	require.NoError(t, s.SaveUser(ctx, chef))

	assert.Equal(t, 1, s.CategoryCount())
	assert.Equal(t, 1, s.IngredientCount())
	assert.Equal(t, 1, s.UserCount())

	c, ok := s.Category(soups.ID)
	require.True(t, ok)
	assert.Equal(t, "Soups", c.Name)

	// Accessors return copies.
	c.Name = "Changed"
	again, _ := s.Category(soups.ID)
	assert.Equal(t, "Soups", again.Name)

	i, ok := s.Ingredient(beets.ID)
	require.True(t, ok)
	assert.Equal(t, "pieces", i.Unit)

	u, ok := s.User(chef.ID)
	require.True(t, ok)
	assert.Equal(t, "chef@example.com", u.Email)

	_, ok = s.User(999)
	assert.False(t, ok)
}

func TestStore_EnforcesUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveUser(ctx, &model.User{Username: "chef", Email: "a@example.com"}))
	err := s.SaveUser(ctx, &model.User{Username: "chef", Email: "b@example.com"})

	var uv *repository.UniqueViolationError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, 1, s.UserCount())
	assert.Equal(t, 2, s.Called("SaveUser"))
}
