// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered cook.
// Username and Email are each unique on their own.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPersisted reports whether the user has been assigned an identity by the store.
func (u *User) IsPersisted() bool {
	return u.ID != 0
}
