package repositories

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// HouseholdReader resolves household membership. Membership management lives elsewhere.
type HouseholdReader interface {
	// FindMembershipByUser returns the household the user belongs to, or ErrNotFound.
	FindMembershipByUser(ctx context.Context, userID string) (*domain.Membership, error)
	// ListMembers returns every member of the household ordered by join time.
	ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error)
}

// HouseholdRepositoryFacade combines all household-related repository interfaces.
type HouseholdRepositoryFacade interface {
	HouseholdReader
}
