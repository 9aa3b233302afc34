package model

import "time"

// Recipe is a cooking recipe. It has no uniqueness constraint.
type Recipe struct {
	ID                     int64     `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	Instructions           string    `json:"instructions"`
	PreparationTimeMinutes int       `json:"preparation_time_minutes"`
	CookingTimeMinutes     int       `json:"cooking_time_minutes"`
	Servings               int       `json:"servings"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// IsPersisted reports whether the recipe has been assigned an identity by the store.
func (r *Recipe) IsPersisted() bool {
	return r.ID != 0
}

// TotalTimeMinutes returns preparation plus cooking time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PreparationTimeMinutes + r.CookingTimeMinutes
}
