package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinarynotes/culinarynotes/internal/model"
)

func ptr[T any](v T) *T { return &v }

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestValidate_CreateCategory(t *testing.T) {
	require.NoError(t, Validate(&CreateCategoryRequest{Name: "Soups"}))

	fields := fieldsOf(t, Validate(&CreateCategoryRequest{Description: strings.Repeat("x", 501)}))
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be at most 500 characters", fields["description"])

	fields = fieldsOf(t, Validate(&CreateCategoryRequest{Name: "S"}))
	assert.Equal(t, "must be at least 2 characters", fields["name"])
}

func TestValidate_CreateUser(t *testing.T) {
	valid := CreateUserRequest{Username: "chef", Email: "chef@example.com", Password: "long-enough"}
	require.NoError(t, Validate(&valid))

	bad := valid
	bad.Email = "not-an-email"
	bad.Password = "short"
	bad.Username = "ab"

	fields := fieldsOf(t, Validate(&bad))
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 8 characters", fields["password"])
	assert.Equal(t, "must be at least 3 characters", fields["username"])
}

func TestValidate_UpdateRequestsSkipAbsentFields(t *testing.T) {
	require.NoError(t, Validate(&UpdateCategoryRequest{}))
	require.NoError(t, Validate(&UpdateUserRequest{Bio: ptr("hi")}))

	fields := fieldsOf(t, Validate(&UpdateCategoryRequest{Name: ptr("")}))
	assert.Contains(t, fields, "name", "an explicit empty name is still validated")

	fields = fieldsOf(t, Validate(&UpdateUserRequest{Email: ptr("nope")}))
	assert.Equal(t, "must be a valid email address", fields["email"])
}

func TestValidate_RecipeNumbers(t *testing.T) {
	require.NoError(t, Validate(&CreateRecipeRequest{Title: "Borsch"}))

	fields := fieldsOf(t, Validate(&CreateRecipeRequest{
		Title:                  "Borsch",
		PreparationTimeMinutes: ptr(-1),
		Servings:               ptr(0),
	}))
	assert.Equal(t, "must be at least 0", fields["preparation_time_minutes"])
	assert.Equal(t, "must be at least 1", fields["servings"])
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "is required", "servings": "must be at least 1"}}
	assert.Equal(t, "validation failed: servings: must be at least 1; title: is required", err.Error())
}

func TestCreateRecipeRequest_ToModelDefaults(t *testing.T) {
	recipe := (&CreateRecipeRequest{Title: "Chicken Kyiv", CookingTimeMinutes: ptr(25)}).ToModel()

	assert.Equal(t, 1, recipe.Servings)
	assert.Equal(t, 25, recipe.CookingTimeMinutes)
	assert.Zero(t, recipe.PreparationTimeMinutes)
	assert.False(t, recipe.IsPersisted())
}

func TestUpdateRequests_Apply(t *testing.T) {
	current := &model.User{ID: 3, Username: "chef", Email: "chef@example.com", Password: "hash", Bio: "old"}

	next := (&UpdateUserRequest{Bio: ptr("new"), Email: ptr("cook@example.com")}).Apply(current)

	assert.Equal(t, "chef", next.Username)
	assert.Equal(t, "cook@example.com", next.Email)
	assert.Equal(t, "new", next.Bio)
	assert.Equal(t, "hash", next.Password)
	assert.Equal(t, "old", current.Bio, "Apply must not mutate its input")

	ing := (&UpdateIngredientRequest{Unit: ptr("grams")}).Apply(&model.Ingredient{ID: 1, Name: "Flour", Unit: "cups"})
	assert.Equal(t, "Flour", ing.Name)
	assert.Equal(t, "grams", ing.Unit)
}
