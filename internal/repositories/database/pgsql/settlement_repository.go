package pgsql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	"github.com/hihello1226/our-ledger/internal/models"
	"github.com/hihello1226/our-ledger/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, household_id, user_id, month, amount, is_finalized, created_at, updated_at`

func scanSettlement(row rowScanner) (domain.MonthlySettlement, error) {
	var m models.MonthlySettlement
	err := row.Scan(&m.SettlementID, &m.HouseholdID, &m.UserID, &m.Month, &m.Amount, &m.IsFinalized, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.MonthlySettlement{}, err
	}
	return mapping.ToDomainSettlement(m), nil
}

func collectSettlements(rows pgx.Rows) ([]domain.MonthlySettlement, error) {
	defer rows.Close()
	records := []domain.MonthlySettlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		records = append(records, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}
	return records, nil
}

// ListSettlementsUpTo returns every record of the household up to and including month.
// YYYY-MM text compares in calendar order.
func (r *PgxSettlementRepository) ListSettlementsUpTo(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM monthly_settlements
		WHERE household_id = $1 AND month <= $2
		ORDER BY month, user_id`
	rows, err := r.Pool.Query(ctx, query, householdID, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements up to %s: %w", month, err)
	}
	return collectSettlements(rows)
}

func (r *PgxSettlementRepository) ListSettlementsForMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM monthly_settlements
		WHERE household_id = $1 AND month = $2
		ORDER BY user_id`
	rows, err := r.Pool.Query(ctx, query, householdID, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements of %s: %w", month, err)
	}
	return collectSettlements(rows)
}

// UpsertSettlement inserts the record or updates the amount of the existing
// (household, user, month) record in place.
func (r *PgxSettlementRepository) UpsertSettlement(ctx context.Context, record domain.MonthlySettlement) (*domain.MonthlySettlement, error) {
	m := mapping.ToModelSettlement(record)
	if m.SettlementID == "" {
		m.SettlementID = uuid.NewString()
	}
	query := `
		INSERT INTO monthly_settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
		ON CONFLICT (household_id, user_id, month)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
		RETURNING ` + settlementColumns

	saved, err := scanSettlement(r.Pool.QueryRow(ctx, query,
		m.SettlementID, m.HouseholdID, m.UserID, m.Month, m.Amount, m.UpdatedAt))
	if err != nil {
		return nil, mapWriteError(err, "settlement record")
	}
	return &saved, nil
}

// FinalizeMonth flags every record of the month as finalized.
func (r *PgxSettlementRepository) FinalizeMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	query := `
		UPDATE monthly_settlements
		SET is_finalized = TRUE, updated_at = NOW()
		WHERE household_id = $1 AND month = $2
		RETURNING ` + settlementColumns
	rows, err := r.Pool.Query(ctx, query, householdID, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to finalize settlements of %s: %w", month, err)
	}
	return collectSettlements(rows)
}
