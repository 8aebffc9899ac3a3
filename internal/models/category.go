package models

// Category is a row of the categories table. HouseholdID is NULL for global defaults.
type Category struct {
	CategoryID  string  `db:"category_id"`
	HouseholdID *string `db:"household_id"`
	Name        string  `db:"name"`
	Type        string  `db:"type"`
	SortOrder   int     `db:"sort_order"`
	Color       *string `db:"color"`
	Icon        *string `db:"icon"`
}

// Subcategory is a row of the subcategories table.
type Subcategory struct {
	SubcategoryID string `db:"subcategory_id"`
	CategoryID    string `db:"category_id"`
	Name          string `db:"name"`
	SortOrder     int    `db:"sort_order"`
}
