package dto

import "github.com/culinarynotes/culinarynotes/internal/model"

// defaultServings applies when a new recipe does not say how many it serves.
const defaultServings = 1

// CreateRecipeRequest represents the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title                  string `json:"title" validate:"required,min=3,max=255"`
	Description            string `json:"description"`
	Instructions           string `json:"instructions"`
	PreparationTimeMinutes *int   `json:"preparation_time_minutes" validate:"omitnil,min=0"`
	CookingTimeMinutes     *int   `json:"cooking_time_minutes" validate:"omitnil,min=0"`
	Servings               *int   `json:"servings" validate:"omitnil,min=1"`
}

// ToModel converts the request into an unsaved recipe.
func (r *CreateRecipeRequest) ToModel() *model.Recipe {
	recipe := &model.Recipe{
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		Servings:     defaultServings,
	}
	merge(&recipe.PreparationTimeMinutes, r.PreparationTimeMinutes)
	merge(&recipe.CookingTimeMinutes, r.CookingTimeMinutes)
	merge(&recipe.Servings, r.Servings)
	return recipe
}

// UpdateRecipeRequest represents the request body for updating a recipe.
type UpdateRecipeRequest struct {
	Title                  *string `json:"title" validate:"omitnil,min=3,max=255"`
	Description            *string `json:"description"`
	Instructions           *string `json:"instructions"`
	PreparationTimeMinutes *int    `json:"preparation_time_minutes" validate:"omitnil,min=0"`
	CookingTimeMinutes     *int    `json:"cooking_time_minutes" validate:"omitnil,min=0"`
	Servings               *int    `json:"servings" validate:"omitnil,min=1"`
}

// Apply returns a copy of current with the present fields overwritten.
func (r *UpdateRecipeRequest) Apply(current *model.Recipe) *model.Recipe {
	next := *current
	merge(&next.Title, r.Title)
	merge(&next.Description, r.Description)
	merge(&next.Instructions, r.Instructions)
	merge(&next.PreparationTimeMinutes, r.PreparationTimeMinutes)
	merge(&next.CookingTimeMinutes, r.CookingTimeMinutes)
	merge(&next.Servings, r.Servings)
	return &next
}
