package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
)

type householdService struct {
	BaseService
	householdRepo portsrepo.HouseholdRepositoryFacade
}

// NewHouseholdService creates a service resolving users to household memberships.
func NewHouseholdService(repo portsrepo.HouseholdRepositoryFacade) portssvc.HouseholdSvc {
	return &householdService{householdRepo: repo}
}

var _ portssvc.HouseholdSvc = (*householdService)(nil)

func (s *householdService) ResolveMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	membership, err := s.householdRepo.FindMembershipByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to resolve household membership", slog.String("user_id", userID))
		}
		return nil, err
	}
	return membership, nil
}

func (s *householdService) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	members, err := s.householdRepo.ListMembers(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list household members", slog.String("household_id", householdID))
		return nil, err
	}
	return members, nil
}
