package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	"github.com/hihello1226/our-ledger/internal/models"
	"github.com/hihello1226/our-ledger/internal/utils/mapping"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, household_id, name, type, sort_order, color, icon`

func scanCategory(row rowScanner) (domain.Category, error) {
	var m models.Category
	if err := row.Scan(&m.CategoryID, &m.HouseholdID, &m.Name, &m.Type, &m.SortOrder, &m.Color, &m.Icon); err != nil {
		return domain.Category{}, err
	}
	return mapping.ToDomainCategory(m), nil
}

// ListCategoriesForHousehold returns global defaults plus the household's own categories,
// each with its subcategories.
func (r *PgxCategoryRepository) ListCategoriesForHousehold(ctx context.Context, householdID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE household_id IS NULL OR household_id = $1
		ORDER BY type, sort_order, name`

	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	ids := []string{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
		ids = append(ids, c.CategoryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	subs, err := r.subcategoriesOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Subcategories = subs[categories[i].CategoryID]
	}
	return categories, nil
}

// FindCategoryByID retrieves a category with its subcategories.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1`
	c, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	subs, err := r.subcategoriesOf(ctx, []string{categoryID})
	if err != nil {
		return nil, err
	}
	c.Subcategories = subs[categoryID]
	return &c, nil
}

func (r *PgxCategoryRepository) subcategoriesOf(ctx context.Context, categoryIDs []string) (map[string][]domain.Subcategory, error) {
	out := make(map[string][]domain.Subcategory, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT subcategory_id, category_id, name, sort_order
		FROM subcategories
		WHERE category_id = ANY($1)
		ORDER BY sort_order, name`

	rows, err := r.Pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Subcategory
		if err := rows.Scan(&m.SubcategoryID, &m.CategoryID, &m.Name, &m.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory row: %w", err)
		}
		out[m.CategoryID] = append(out[m.CategoryID], mapping.ToDomainSubcategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategory rows: %w", err)
	}
	return out, nil
}

// SaveCategoryTx inserts a household category inside tx behind a savepoint.
func (r *PgxCategoryRepository) SaveCategoryTx(ctx context.Context, tx pgx.Tx, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	return withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		if _, err := sp.Exec(ctx, query, m.CategoryID, m.HouseholdID, m.Name, m.Type, m.SortOrder, m.Color, m.Icon); err != nil {
			return mapWriteError(err, "category "+m.Name)
		}
		return nil
	})
}

// SaveSubcategoryTx inserts a subcategory inside tx behind a savepoint.
func (r *PgxCategoryRepository) SaveSubcategoryTx(ctx context.Context, tx pgx.Tx, subcategory domain.Subcategory) error {
	m := mapping.ToModelSubcategory(subcategory)
	query := `INSERT INTO subcategories (subcategory_id, category_id, name, sort_order) VALUES ($1, $2, $3, $4)`
	return withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		if _, err := sp.Exec(ctx, query, m.SubcategoryID, m.CategoryID, m.Name, m.SortOrder); err != nil {
			return mapWriteError(err, "subcategory "+m.Name)
		}
		return nil
	})
}
