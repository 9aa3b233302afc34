package model

import "time"

// Ingredient is a named ingredient measured in a unit.
// The pair (Name, Unit) is unique, so "Flour/cups" and "Flour/grams" coexist.
type Ingredient struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPersisted reports whether the ingredient has been assigned an identity by the store.
func (i *Ingredient) IsPersisted() bool {
	return i.ID != 0
}
