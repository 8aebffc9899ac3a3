package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/services"
)

func summaryFixtures() ([]domain.Entry, []domain.Account, []domain.Category) {
	mine, shared, hidden := "acct-mine", "acct-shared", "acct-hidden"
	food := "cat-food"
	at := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	entries := []domain.Entry{
		{EntryID: "e1", Amount: 300000, OccurredAt: at, PayerMemberID: testMemberA, Detail: domain.IncomeDetail{AccountID: &mine}},
		{EntryID: "e2", Amount: 12000, OccurredAt: at, PayerMemberID: testMemberA, CategoryID: &food, Detail: domain.ExpenseDetail{AccountID: &shared, Shared: true}},
		{EntryID: "e3", Amount: 5000, OccurredAt: at, PayerMemberID: testMemberB, Detail: domain.ExpenseDetail{AccountID: &hidden}},
		{EntryID: "e4", Amount: 700, OccurredAt: at, PayerMemberID: testMemberB, Detail: domain.ExpenseDetail{}},
		{EntryID: "e5", Amount: 50000, OccurredAt: at, PayerMemberID: testMemberA, Detail: domain.TransferDetail{TransferKind: domain.TransferInternal, FromAccountID: mine, ToAccountID: hidden}},
	}
	accounts := []domain.Account{
		{AccountID: mine, OwnerUserID: testUserA, InitialBalance: 1000},
		{AccountID: shared, OwnerUserID: testUserB, IsSharedVisible: true, InitialBalance: 20000},
		{AccountID: hidden, OwnerUserID: testUserB, InitialBalance: 99999},
	}
	categories := []domain.Category{{CategoryID: food, Name: "식비", Type: domain.CategoryTypeExpense}}
	return entries, accounts, categories
}

func TestAggregateMonth_VisibilityAndBuckets(t *testing.T) {
	entries, accounts, categories := summaryFixtures()

	got := services.AggregateMonth("2024-03", testUserA, entries, testMembers(), accounts, categories)

	assert.Equal(t, int64(300000), got.TotalIncome)
	assert.Equal(t, int64(12700), got.TotalExpense, "hidden account expense excluded, transfer ignored")
	assert.Equal(t, int64(287300), got.Balance)
	require.Len(t, got.ByCategory, 2)
	assert.Equal(t, "식비", got.ByCategory[0].CategoryName)
	assert.Equal(t, int64(12000), got.ByCategory[0].Total)
	assert.Equal(t, domain.UncategorizedLabel, got.ByCategory[1].CategoryName)
	assert.Nil(t, got.ByCategory[1].CategoryID)
	assert.Equal(t, int64(700), got.ByCategory[1].Total)

	require.Len(t, got.ByMember, 2)
	assert.Equal(t, domain.MemberTotal{MemberID: testMemberA, MemberName: "A", TotalExpense: 12000, TotalIncome: 300000, SharedExpense: 12000}, got.ByMember[0])
	// member totals ignore visibility
	assert.Equal(t, int64(5700), got.ByMember[1].TotalExpense)
}

func TestVisibleAccounts(t *testing.T) {
	_, accounts, _ := summaryFixtures()

	assert.Len(t, services.VisibleAccounts(accounts, testUserA, nil), 2)
	assert.Len(t, services.VisibleAccounts(accounts, testUserB, nil), 3)
	only := services.VisibleAccounts(accounts, testUserA, []string{"acct-shared", "acct-hidden"})
	require.Len(t, only, 1)
	assert.Equal(t, "acct-shared", only[0].AccountID)
}

func TestMonthlySummary_NetBalanceAndSettlements(t *testing.T) {
	entries, accounts, categories := summaryFixtures()
	entryRepo := new(MockEntryRepository)
	accountRepo := new(MockAccountRepository)
	categoryRepo := new(MockCategoryRepository)
	householdRepo := new(MockHouseholdRepository)
	settlementRepo := new(MockSettlementRepository)
	svc := services.NewSummaryService(entryRepo, accountRepo, categoryRepo, householdRepo, settlementRepo)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entryRepo.On("ListEntriesBetween", mock.Anything, testHouseholdID, from, from.AddDate(0, 1, 0)).Return(entries, nil)
	householdRepo.On("ListMembers", mock.Anything, testHouseholdID).Return(testMembers(), nil)
	accountRepo.On("ListAccountsByHousehold", mock.Anything, testHouseholdID).Return(accounts, nil)
	categoryRepo.On("ListCategoriesForHousehold", mock.Anything, testHouseholdID).Return(categories, nil)
	settlementRepo.On("ListSettlementsUpTo", mock.Anything, testHouseholdID, domain.Month("2024-03")).Return([]domain.MonthlySettlement{
		{UserID: testUserA, Month: "2024-01", Amount: 4000},
		{UserID: testUserA, Month: "2024-02", Amount: -1000},
	}, nil)
	entryRepo.On("ListAccountHistory", mock.Anything, testHouseholdID, "acct-mine").Return([]domain.Entry{entries[0], entries[4]}, nil)
	entryRepo.On("ListAccountHistory", mock.Anything, testHouseholdID, "acct-shared").Return([]domain.Entry{entries[1]}, nil)

	got, err := svc.MonthlySummary(context.Background(), testActor(), "2024-03", nil)

	require.NoError(t, err)
	// mine: 1000 + 300000 - 50000, shared: 20000 - 12000
	assert.Equal(t, int64(251000+8000), got.NetBalance)
	assert.Equal(t, []domain.SettlementBalance{{UserID: testUserA, Cumulative: 3000}}, got.SettlementBalances)
	entryRepo.AssertNotCalled(t, "ListAccountHistory", mock.Anything, testHouseholdID, "acct-hidden")
}
