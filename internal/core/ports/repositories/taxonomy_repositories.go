package repositories

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// ListAccountsByHousehold returns every account attached to the household, visible or not.
	ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for accounts.
type AccountWriter interface {
	SaveAccountTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// CategoryReader defines read operations for categories and subcategories.
type CategoryReader interface {
	// ListCategoriesForHousehold returns global and household-owned categories with their subcategories.
	ListCategoriesForHousehold(ctx context.Context, householdID string) ([]domain.Category, error)
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
}

// CategoryWriter defines write operations for categories and subcategories.
type CategoryWriter interface {
	SaveCategoryTx(ctx context.Context, tx pgx.Tx, category domain.Category) error
	SaveSubcategoryTx(ctx context.Context, tx pgx.Tx, subcategory domain.Subcategory) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
