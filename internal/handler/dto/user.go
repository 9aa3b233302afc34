package dto

import "github.com/culinarynotes/culinarynotes/internal/model"

// CreateUserRequest represents the request body for registering a user.
// Password is plain text here and hashed before it reaches the service.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Bio       string `json:"bio" validate:"max=1000"`
}

// ToModel converts the request into an unsaved user carrying passwordHash.
func (r *CreateUserRequest) ToModel(passwordHash string) *model.User {
	return &model.User{
		Username:  r.Username,
		Email:     r.Email,
		Password:  passwordHash,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
	}
}

// UpdateUserRequest represents the request body for updating a user.
// The password cannot be changed through it.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitnil,min=3,max=50"`
	Email     *string `json:"email" validate:"omitnil,email,max=100"`
	FirstName *string `json:"first_name" validate:"omitnil,max=50"`
	LastName  *string `json:"last_name" validate:"omitnil,max=50"`
	Bio       *string `json:"bio" validate:"omitnil,max=1000"`
}

// Apply returns a copy of current with the present fields overwritten.
func (r *UpdateUserRequest) Apply(current *model.User) *model.User {
	next := *current
	merge(&next.Username, r.Username)
	merge(&next.Email, r.Email)
	merge(&next.FirstName, r.FirstName)
	merge(&next.LastName, r.LastName)
	merge(&next.Bio, r.Bio)
	return &next
}
