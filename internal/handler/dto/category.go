package dto

import "github.com/culinarynotes/culinarynotes/internal/model"

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ToModel converts the request into an unsaved category.
func (r *CreateCategoryRequest) ToModel() *model.Category {
	return &model.Category{
		Name:        r.Name,
		Description: r.Description,
	}
}

// UpdateCategoryRequest represents the request body for updating a category.
// Absent fields keep their stored values.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=2,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

// Apply returns a copy of current with the present fields overwritten.
func (r *UpdateCategoryRequest) Apply(current *model.Category) *model.Category {
	next := *current
	merge(&next.Name, r.Name)
	merge(&next.Description, r.Description)
	return &next
}
