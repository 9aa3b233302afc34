package model

import "time"

// Category groups recipes. Name is unique among categories.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPersisted reports whether the category has been assigned an identity by the store.
func (c *Category) IsPersisted() bool {
	return c.ID != 0
}
