package domain

// CategoryType separates expense categories from income categories.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Category is a global default (HouseholdID nil) or household-owned grouping of entries.
type Category struct {
	CategoryID    string        `json:"categoryID"`
	HouseholdID   *string       `json:"householdID,omitempty"`
	Name          string        `json:"name"`
	Type          CategoryType  `json:"type"`
	SortOrder     int           `json:"sortOrder"`
	Color         *string       `json:"color,omitempty"`
	Icon          *string       `json:"icon,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// IsDefault is true for categories shared by every household.
func (c Category) IsDefault() bool {
	return c.HouseholdID == nil
}

// Subcategory belongs to exactly one category and is deleted with it.
type Subcategory struct {
	SubcategoryID string `json:"subcategoryID"`
	CategoryID    string `json:"categoryID"`
	Name          string `json:"name"`
	SortOrder     int    `json:"sortOrder"`
}
