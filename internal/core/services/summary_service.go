package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/utils/accounting"
)

// balanceFetchLimit bounds concurrent history reads when summing account balances.
const balanceFetchLimit = 4

type summaryService struct {
	BaseService
	entryRepo      portsrepo.EntryReader
	accountRepo    portsrepo.AccountReader
	categoryRepo   portsrepo.CategoryReader
	householdRepo  portsrepo.HouseholdReader
	settlementRepo portsrepo.SettlementReader
}

// NewSummaryService creates the monthly aggregation service.
func NewSummaryService(
	entryRepo portsrepo.EntryReader,
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	householdRepo portsrepo.HouseholdReader,
	settlementRepo portsrepo.SettlementReader,
) portssvc.SummarySvc {
	return &summaryService{
		entryRepo:      entryRepo,
		accountRepo:    accountRepo,
		categoryRepo:   categoryRepo,
		householdRepo:  householdRepo,
		settlementRepo: settlementRepo,
	}
}

var _ portssvc.SummarySvc = (*summaryService)(nil)

func (s *summaryService) MonthlySummary(ctx context.Context, actor domain.Membership, month domain.Month, accountIDs []string) (*domain.MonthlySummary, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	householdID := actor.Household.HouseholdID
	from, to := month.Range()

	var (
		entries     []domain.Entry
		members     []domain.HouseholdMember
		accounts    []domain.Account
		categories  []domain.Category
		settlements []domain.MonthlySettlement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entries, err = s.entryRepo.ListEntriesBetween(gctx, householdID, from, to)
		return err
	})
	g.Go(func() (err error) {
		members, err = s.householdRepo.ListMembers(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		accounts, err = s.accountRepo.ListAccountsByHousehold(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.categoryRepo.ListCategoriesForHousehold(gctx, householdID)
		return err
	})
	g.Go(func() (err error) {
		settlements, err = s.settlementRepo.ListSettlementsUpTo(gctx, householdID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load monthly summary inputs", slog.String("month", month.String()))
		return nil, err
	}

	summary := AggregateMonth(month, actor.Member.UserID, entries, members, accounts, categories)
	summary.SettlementBalances = CumulativeBalances(settlements)

	net, err := s.netBalance(ctx, householdID, VisibleAccounts(accounts, actor.Member.UserID, accountIDs))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute net balance", slog.String("month", month.String()))
		return nil, err
	}
	summary.NetBalance = net
	return &summary, nil
}

// netBalance sums the replayed current balance of each account.
func (s *summaryService) netBalance(ctx context.Context, householdID string, accounts []domain.Account) (int64, error) {
	var (
		mu    sync.Mutex
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceFetchLimit)
	for _, account := range accounts {
		g.Go(func() error {
			history, err := s.entryRepo.ListAccountHistory(gctx, householdID, account.AccountID)
			if err != nil {
				return err
			}
			balance := accounting.CurrentBalance(account.InitialBalance, account.AccountID, history)
			mu.Lock()
			total += balance
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

// VisibleAccounts returns the accounts userID may see, restricted to only when only is non-empty.
func VisibleAccounts(accounts []domain.Account, userID string, only []string) []domain.Account {
	var restrict map[string]struct{}
	if len(only) > 0 {
		restrict = make(map[string]struct{}, len(only))
		for _, id := range only {
			restrict[id] = struct{}{}
		}
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if !a.VisibleTo(userID) {
			continue
		}
		if restrict != nil {
			if _, ok := restrict[a.AccountID]; !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// AggregateMonth builds the totals of a month as seen by userID.
// Entries whose primary account is hidden from userID are left out of the income, expense
// and category totals; member totals always cover every entry.
func AggregateMonth(
	month domain.Month,
	userID string,
	entries []domain.Entry,
	members []domain.HouseholdMember,
	accounts []domain.Account,
	categories []domain.Category,
) domain.MonthlySummary {
	hidden := make(map[string]struct{})
	for _, a := range accounts {
		if !a.VisibleTo(userID) {
			hidden[a.AccountID] = struct{}{}
		}
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.CategoryID] = c.Name
	}

	summary := domain.MonthlySummary{
		Month:              month,
		ByCategory:         []domain.CategoryTotal{},
		ByMember:           make([]domain.MemberTotal, 0, len(members)),
		SettlementBalances: []domain.SettlementBalance{},
	}
	byCategory := make(map[string]*domain.CategoryTotal)
	var uncategorized *domain.CategoryTotal

	for _, e := range entries {
		if id := e.AccountID(); id != nil {
			if _, ok := hidden[*id]; ok {
				continue
			}
		}
		switch e.Kind() {
		case domain.EntryKindIncome:
			summary.TotalIncome += e.Amount
		case domain.EntryKindExpense:
			summary.TotalExpense += e.Amount
			if e.CategoryID == nil {
				if uncategorized == nil {
					uncategorized = &domain.CategoryTotal{CategoryName: domain.UncategorizedLabel}
				}
				uncategorized.Total += e.Amount
				continue
			}
			ct, ok := byCategory[*e.CategoryID]
			if !ok {
				id := *e.CategoryID
				name, known := categoryNames[id]
				if !known {
					name = domain.UncategorizedLabel
				}
				ct = &domain.CategoryTotal{CategoryID: &id, CategoryName: name}
				byCategory[id] = ct
			}
			ct.Total += e.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	for _, ct := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *ct)
	}
	if uncategorized != nil {
		summary.ByCategory = append(summary.ByCategory, *uncategorized)
	}
	sort.SliceStable(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.CategoryName < b.CategoryName
	})

	for _, m := range members {
		mt := domain.MemberTotal{MemberID: m.MemberID, MemberName: m.Name}
		for _, e := range entries {
			if e.PayerMemberID != m.MemberID {
				continue
			}
			switch e.Kind() {
			case domain.EntryKindExpense:
				mt.TotalExpense += e.Amount
				if e.IsShared() {
					mt.SharedExpense += e.Amount
				}
			case domain.EntryKindIncome:
				mt.TotalIncome += e.Amount
			}
		}
		summary.ByMember = append(summary.ByMember, mt)
	}
	return summary
}
