package services

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// SummarySvc builds monthly reports.
type SummarySvc interface {
	// MonthlySummary aggregates one month as seen by the actor, optionally restricted to accountIDs
	// for the net-balance figure.
	MonthlySummary(ctx context.Context, actor domain.Membership, month domain.Month, accountIDs []string) (*domain.MonthlySummary, error)
}

// SettlementSvc computes and persists settlements.
type SettlementSvc interface {
	// ComputeSettlement returns the month's netting plan, the cumulative ledger and the month's records.
	ComputeSettlement(ctx context.Context, actor domain.Membership, month domain.Month) (*domain.SettlementReport, error)

	// SaveSettlementRecord upserts the record of one user for one month.
	SaveSettlementRecord(ctx context.Context, actor domain.Membership, userID string, month domain.Month, amount int64) (*domain.MonthlySettlement, error)

	// FinalizeMonth flags every record of the month as finalized. There is no way back.
	FinalizeMonth(ctx context.Context, actor domain.Membership, month domain.Month) ([]domain.MonthlySettlement, error)
}

// TaxonomySvc lists categories and accounts.
type TaxonomySvc interface {
	ListCategories(ctx context.Context, actor domain.Membership) ([]domain.Category, error)
	// ListAccounts returns the household accounts the actor may see.
	ListAccounts(ctx context.Context, actor domain.Membership) ([]domain.Account, error)
}

// HouseholdSvc resolves who the acting user is within a household.
type HouseholdSvc interface {
	ResolveMembership(ctx context.Context, userID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error)
}
