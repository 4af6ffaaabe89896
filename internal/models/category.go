package models

import "time"

// Category is a named, ordered classification bucket for courses.
// SortOrder drives display ordering only; it carries no uniqueness guarantee.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Color     string    `db:"color" json:"color"`
	SortOrder int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CategoryFilter captures criteria for the admin category listing.
type CategoryFilter struct {
	Search   string
	Page     int
	PageSize int
}
