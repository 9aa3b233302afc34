package dto

import "github.com/culinarynotes/culinarynotes/internal/model"

// CreateIngredientRequest represents the request body for creating an ingredient.
type CreateIngredientRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Unit        string `json:"unit" validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// ToModel converts the request into an unsaved ingredient.
func (r *CreateIngredientRequest) ToModel() *model.Ingredient {
	return &model.Ingredient{
		Name:        r.Name,
		Unit:        r.Unit,
		Description: r.Description,
	}
}

// UpdateIngredientRequest represents the request body for updating an ingredient.
type UpdateIngredientRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=2,max=100"`
	Unit        *string `json:"unit" validate:"omitnil,min=1,max=50"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

// Apply returns a copy of current with the present fields overwritten.
func (r *UpdateIngredientRequest) Apply(current *model.Ingredient) *model.Ingredient {
	next := *current
	merge(&next.Name, r.Name)
	merge(&next.Unit, r.Unit)
	merge(&next.Description, r.Description)
	return &next
}
