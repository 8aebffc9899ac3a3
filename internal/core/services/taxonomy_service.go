package services

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
)

type taxonomyService struct {
	BaseService
	accountRepo  portsrepo.AccountReader
	categoryRepo portsrepo.CategoryReader
}

// NewTaxonomyService creates the category and account lookup service.
func NewTaxonomyService(accountRepo portsrepo.AccountReader, categoryRepo portsrepo.CategoryReader) portssvc.TaxonomySvc {
	return &taxonomyService{accountRepo: accountRepo, categoryRepo: categoryRepo}
}

var _ portssvc.TaxonomySvc = (*taxonomyService)(nil)

func (s *taxonomyService) ListCategories(ctx context.Context, actor domain.Membership) ([]domain.Category, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategoriesForHousehold(ctx, actor.Household.HouseholdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return categories, nil
}

func (s *taxonomyService) ListAccounts(ctx context.Context, actor domain.Membership) ([]domain.Account, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByHousehold(ctx, actor.Household.HouseholdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return VisibleAccounts(accounts, actor.Member.UserID, nil), nil
}
