package repositories

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// SettlementReader defines read operations for persisted monthly settlements.
type SettlementReader interface {
	// ListSettlementsUpTo returns every record whose month is <= month.
	ListSettlementsUpTo(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error)
	ListSettlementsForMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error)
}

// SettlementWriter defines write operations for persisted monthly settlements.
type SettlementWriter interface {
	// UpsertSettlement inserts or updates the record keyed by (household, user, month).
	UpsertSettlement(ctx context.Context, record domain.MonthlySettlement) (*domain.MonthlySettlement, error)
	// FinalizeMonth marks every record of the month finalized and returns them.
	FinalizeMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error)
}

// SettlementRepositoryFacade combines all settlement-related repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}
