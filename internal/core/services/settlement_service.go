package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/ports"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

type settlementService struct {
	BaseService
	entryRepo      portsrepo.EntryReader
	householdRepo  portsrepo.HouseholdReader
	settlementRepo portsrepo.SettlementRepositoryFacade
	now            func() time.Time
}

// SettlementServiceOption is a function that configures a settlementService
type SettlementServiceOption func(*settlementService)

// WithSettlementClock overrides the clock used for record timestamps.
func WithSettlementClock(now func() time.Time) SettlementServiceOption {
	return func(s *settlementService) { s.now = now }
}

// WithSettlementEvents publishes finalize events through p.
func WithSettlementEvents(p ports.EventPublisher) SettlementServiceOption {
	return func(s *settlementService) { s.Events = p }
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(
	entryRepo portsrepo.EntryReader,
	householdRepo portsrepo.HouseholdReader,
	settlementRepo portsrepo.SettlementRepositoryFacade,
	opts ...SettlementServiceOption,
) portssvc.SettlementSvc {
	s := &settlementService{
		entryRepo:      entryRepo,
		householdRepo:  householdRepo,
		settlementRepo: settlementRepo,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func (s *settlementService) ComputeSettlement(ctx context.Context, actor domain.Membership, month domain.Month) (*domain.SettlementReport, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	householdID := actor.Household.HouseholdID
	from, to := month.Range()

	var (
		members   []domain.HouseholdMember
		entries   []domain.Entry
		upTo      []domain.MonthlySettlement
		thisMonth []domain.MonthlySettlement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.householdRepo.ListMembers(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.entryRepo.ListEntriesBetween(gctx, householdID, from, to)
		return err
	})
	g.Go(func() (err error) {
		upTo, err = s.settlementRepo.ListSettlementsUpTo(gctx, householdID, month)
		return err
	})
	g.Go(func() (err error) {
		thisMonth, err = s.settlementRepo.ListSettlementsForMonth(gctx, householdID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load settlement inputs",
			slog.String("household_id", householdID), slog.String("month", month.String()))
		return nil, err
	}

	if thisMonth == nil {
		thisMonth = []domain.MonthlySettlement{}
	}
	return &domain.SettlementReport{
		Plan:       ComputeSettlementPlan(month, members, entries),
		Cumulative: CumulativeBalances(upTo),
		Records:    thisMonth,
	}, nil
}

func (s *settlementService) SaveSettlementRecord(ctx context.Context, actor domain.Membership, userID string, month domain.Month, amount int64) (*domain.MonthlySettlement, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	householdID := actor.Household.HouseholdID

	members, err := s.householdRepo.ListMembers(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members for settlement", slog.String("household_id", householdID))
		return nil, err
	}
	if !hasUser(members, userID) {
		return nil, fmt.Errorf("%w: user %s is not a member of this household", apperrors.ErrNotFound, userID)
	}

	now := s.now()
	saved, err := s.settlementRepo.UpsertSettlement(ctx, domain.MonthlySettlement{
		HouseholdID: householdID,
		UserID:      userID,
		Month:       month,
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save settlement record",
			slog.String("user_id", userID), slog.String("month", month.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Settlement record saved", slog.String("user_id", userID), slog.String("month", month.String()))
	return saved, nil
}

func (s *settlementService) FinalizeMonth(ctx context.Context, actor domain.Membership, month domain.Month) ([]domain.MonthlySettlement, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	householdID := actor.Household.HouseholdID

	records, err := s.settlementRepo.FinalizeMonth(ctx, householdID, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to finalize settlement month", slog.String("month", month.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Settlement month finalized", slog.String("month", month.String()), slog.Int("records", len(records)))
	s.PublishEvent(ctx, domain.LedgerEvent{
		Type:        domain.EventSettlementFinalized,
		HouseholdID: householdID,
		OccurredAt:  s.now(),
		Attributes:  map[string]any{"month": month.String(), "records": len(records)},
	})
	return records, nil
}

func hasUser(members []domain.HouseholdMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func hasMember(members []domain.HouseholdMember, memberID string) bool {
	for _, m := range members {
		if m.MemberID == memberID {
			return true
		}
	}
	return false
}
