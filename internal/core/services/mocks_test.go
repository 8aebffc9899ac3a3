package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// --- Entry repository ---

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, householdID, entryID string) (*domain.Entry, error) {
	args := m.Called(ctx, householdID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) QueryEntryPage(ctx context.Context, filter domain.EntryFilter) (*domain.EntryPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryPage), args.Error(1)
}

func (m *MockEntryRepository) ListAccountHistory(ctx context.Context, householdID, accountID string) ([]domain.Entry, error) {
	args := m.Called(ctx, householdID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListEntriesBetween(ctx context.Context, householdID string, from, to time.Time) ([]domain.Entry, error) {
	args := m.Called(ctx, householdID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListEntryFingerprints(ctx context.Context, householdID string) ([]domain.EntryFingerprint, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryFingerprint), args.Error(1)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.Entry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *MockEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, householdID, entryID string) error {
	return m.Called(ctx, householdID, entryID).Error(0)
}

func (m *MockEntryRepository) DeleteEntries(ctx context.Context, householdID string, entryIDs []string) (int64, error) {
	args := m.Called(ctx, householdID, entryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// expectTx lets RunInTx succeed with a nil transaction handle.
func (m *MockEntryRepository) expectTx() {
	m.On("Begin", mock.Anything).Return(nil, nil)
	m.On("Commit", mock.Anything, mock.Anything).Return(nil)
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Account repository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByHousehold(ctx context.Context, householdID string) ([]domain.Account, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccountTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	return m.Called(ctx, tx, account).Error(0)
}

// --- Category repository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListCategoriesForHousehold(ctx context.Context, householdID string) ([]domain.Category, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategoryTx(ctx context.Context, tx pgx.Tx, category domain.Category) error {
	return m.Called(ctx, tx, category).Error(0)
}

func (m *MockCategoryRepository) SaveSubcategoryTx(ctx context.Context, tx pgx.Tx, subcategory domain.Subcategory) error {
	return m.Called(ctx, tx, subcategory).Error(0)
}

// --- Household repository ---

type MockHouseholdRepository struct {
	mock.Mock
}

func (m *MockHouseholdRepository) FindMembershipByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseholdMember), args.Error(1)
}

// --- Settlement repository ---

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) ListSettlementsUpTo(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	args := m.Called(ctx, householdID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySettlement), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlementsForMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	args := m.Called(ctx, householdID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySettlement), args.Error(1)
}

func (m *MockSettlementRepository) UpsertSettlement(ctx context.Context, record domain.MonthlySettlement) (*domain.MonthlySettlement, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySettlement), args.Error(1)
}

func (m *MockSettlementRepository) FinalizeMonth(ctx context.Context, householdID string, month domain.Month) ([]domain.MonthlySettlement, error) {
	args := m.Called(ctx, householdID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySettlement), args.Error(1)
}

// --- External source repository ---

type MockExternalSourceRepository struct {
	mock.Mock
}

func (m *MockExternalSourceRepository) ListSources(ctx context.Context, householdID string) ([]domain.ExternalDataSource, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalDataSource), args.Error(1)
}

func (m *MockExternalSourceRepository) FindSourceByID(ctx context.Context, householdID, sourceID string) (*domain.ExternalDataSource, error) {
	args := m.Called(ctx, householdID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalDataSource), args.Error(1)
}

func (m *MockExternalSourceRepository) FindRef(ctx context.Context, sourceID, externalRowID string) (*domain.EntryExternalRef, error) {
	args := m.Called(ctx, sourceID, externalRowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryExternalRef), args.Error(1)
}

func (m *MockExternalSourceRepository) ListUnexportedEntries(ctx context.Context, source domain.ExternalDataSource, limit int) ([]domain.Entry, error) {
	args := m.Called(ctx, source, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockExternalSourceRepository) SaveSource(ctx context.Context, source domain.ExternalDataSource) error {
	return m.Called(ctx, source).Error(0)
}

func (m *MockExternalSourceRepository) DeleteSource(ctx context.Context, householdID, sourceID string) error {
	return m.Called(ctx, householdID, sourceID).Error(0)
}

func (m *MockExternalSourceRepository) SaveRefTx(ctx context.Context, tx pgx.Tx, ref domain.EntryExternalRef) error {
	return m.Called(ctx, tx, ref).Error(0)
}

func (m *MockExternalSourceRepository) UpdateSyncStateTx(ctx context.Context, tx pgx.Tx, sourceID string, lastSyncedRow int, syncedAt time.Time) error {
	return m.Called(ctx, tx, sourceID, lastSyncedRow, syncedAt).Error(0)
}

// --- Gateways ---

type MockSheetGateway struct {
	mock.Mock
}

func (m *MockSheetGateway) ReadRows(ctx context.Context, sheetID, sheetName string, startRow, maxRows int) ([][]string, int, error) {
	args := m.Called(ctx, sheetID, sheetName, startRow, maxRows)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([][]string), args.Int(1), args.Error(2)
}

func (m *MockSheetGateway) WriteRows(ctx context.Context, sheetID, sheetName string, startRow int, rows [][]string) (int, error) {
	args := m.Called(ctx, sheetID, sheetName, startRow, rows)
	return args.Int(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	return m.Called(ctx, event).Error(0)
}

// mapCache is a plain map-backed upload cache.
type mapCache struct {
	mu    sync.Mutex
	items map[string]domain.UploadedTable
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]domain.UploadedTable{}}
}

func (c *mapCache) Put(_ context.Context, t domain.UploadedTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[t.Key] = t
	return nil
}

func (c *mapCache) Get(_ context.Context, key string) (domain.UploadedTable, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.items[key]
	return t, ok, nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// --- Fixtures ---

const (
	testHouseholdID = "11111111-1111-1111-1111-111111111111"
	testMemberA     = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	testMemberB     = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	testUserA       = "user-a"
	testUserB       = "user-b"
)

func testActor() domain.Membership {
	return domain.Membership{
		Household: domain.Household{HouseholdID: testHouseholdID, Name: "home"},
		Member:    domain.HouseholdMember{MemberID: testMemberA, HouseholdID: testHouseholdID, UserID: testUserA, Name: "A"},
	}
}

func testMembers() []domain.HouseholdMember {
	return []domain.HouseholdMember{
		{MemberID: testMemberA, HouseholdID: testHouseholdID, UserID: testUserA, Name: "A"},
		{MemberID: testMemberB, HouseholdID: testHouseholdID, UserID: testUserB, Name: "B"},
	}
}

func strPtr(s string) *string { return &s }

func fixedClock() time.Time {
	return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
}
