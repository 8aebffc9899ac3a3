package mapping

import (
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		HouseholdID: d.HouseholdID,
		Name:        d.Name,
		Type:        string(d.Type),
		SortOrder:   d.SortOrder,
		Color:       d.Color,
		Icon:        d.Icon,
	}
}

// ToDomainCategory converts a category row; subcategories are attached by the caller.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		Type:        domain.CategoryType(m.Type),
		SortOrder:   m.SortOrder,
		Color:       m.Color,
		Icon:        m.Icon,
	}
}

func ToModelSubcategory(d domain.Subcategory) models.Subcategory {
	return models.Subcategory{
		SubcategoryID: d.SubcategoryID,
		CategoryID:    d.CategoryID,
		Name:          d.Name,
		SortOrder:     d.SortOrder,
	}
}

func ToDomainSubcategory(m models.Subcategory) domain.Subcategory {
	return domain.Subcategory{
		SubcategoryID: m.SubcategoryID,
		CategoryID:    m.CategoryID,
		Name:          m.Name,
		SortOrder:     m.SortOrder,
	}
}
