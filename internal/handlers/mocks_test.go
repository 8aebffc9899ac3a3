package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
)

// --- Mock HouseholdService ---
type MockHouseholdService struct {
	mock.Mock
}

func (m *MockHouseholdService) ResolveMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockHouseholdService) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HouseholdMember), args.Error(1)
}

// --- Mock EntryService ---
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) QueryEntries(ctx context.Context, actor domain.Membership, filter domain.EntryFilter) (*domain.EntryPage, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryPage), args.Error(1)
}
func (m *MockEntryService) GetEntry(ctx context.Context, actor domain.Membership, entryID string) (*domain.Entry, error) {
	args := m.Called(ctx, actor, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockEntryService) CreateEntry(ctx context.Context, actor domain.Membership, draft domain.EntryDraft) (*domain.Entry, error) {
	args := m.Called(ctx, actor, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockEntryService) UpdateEntry(ctx context.Context, actor domain.Membership, entryID string, cmd domain.EntryUpdateCommand) (*domain.Entry, error) {
	args := m.Called(ctx, actor, entryID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockEntryService) DeleteEntry(ctx context.Context, actor domain.Membership, entryID string) error {
	args := m.Called(ctx, actor, entryID)
	return args.Error(0)
}
func (m *MockEntryService) BulkDeleteEntries(ctx context.Context, actor domain.Membership, entryIDs []string) (int64, error) {
	args := m.Called(ctx, actor, entryIDs)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock SummaryService ---
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) MonthlySummary(ctx context.Context, actor domain.Membership, month domain.Month, accountIDs []string) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, actor, month, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) ComputeSettlement(ctx context.Context, actor domain.Membership, month domain.Month) (*domain.SettlementReport, error) {
	args := m.Called(ctx, actor, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementReport), args.Error(1)
}
func (m *MockSettlementService) SaveSettlementRecord(ctx context.Context, actor domain.Membership, userID string, month domain.Month, amount int64) (*domain.MonthlySettlement, error) {
	args := m.Called(ctx, actor, userID, month, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySettlement), args.Error(1)
}
func (m *MockSettlementService) FinalizeMonth(ctx context.Context, actor domain.Membership, month domain.Month) ([]domain.MonthlySettlement, error) {
	args := m.Called(ctx, actor, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySettlement), args.Error(1)
}

// --- Mock TaxonomyService ---
type MockTaxonomyService struct {
	mock.Mock
}

func (m *MockTaxonomyService) ListCategories(ctx context.Context, actor domain.Membership) ([]domain.Category, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockTaxonomyService) ListAccounts(ctx context.Context, actor domain.Membership) ([]domain.Account, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock ImportService ---
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) PreviewImport(ctx context.Context, actor domain.Membership, content []byte, filename, encoding string) (*domain.ImportPreview, error) {
	args := m.Called(ctx, actor, content, filename, encoding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportPreview), args.Error(1)
}
func (m *MockImportService) ConfirmImport(ctx context.Context, actor domain.Membership, req domain.ImportRequest) (*domain.ImportResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

// --- Mock ExternalSourceService ---
type MockExternalSourceService struct {
	mock.Mock
}

func (m *MockExternalSourceService) ListSources(ctx context.Context, actor domain.Membership) ([]domain.ExternalDataSource, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalDataSource), args.Error(1)
}
func (m *MockExternalSourceService) CreateSource(ctx context.Context, actor domain.Membership, source domain.ExternalDataSource) (*domain.ExternalDataSource, error) {
	args := m.Called(ctx, actor, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalDataSource), args.Error(1)
}
func (m *MockExternalSourceService) DeleteSource(ctx context.Context, actor domain.Membership, sourceID string) error {
	args := m.Called(ctx, actor, sourceID)
	return args.Error(0)
}
func (m *MockExternalSourceService) SyncImport(ctx context.Context, actor domain.Membership, sourceID, payerMemberID string) (*domain.SyncImportResult, error) {
	args := m.Called(ctx, actor, sourceID, payerMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncImportResult), args.Error(1)
}
func (m *MockExternalSourceService) SyncExport(ctx context.Context, actor domain.Membership, sourceID string) (*domain.SyncExportResult, error) {
	args := m.Called(ctx, actor, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncExportResult), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.HouseholdSvc      = (*MockHouseholdService)(nil)
	_ portssvc.EntrySvcFacade    = (*MockEntryService)(nil)
	_ portssvc.SummarySvc        = (*MockSummaryService)(nil)
	_ portssvc.SettlementSvc     = (*MockSettlementService)(nil)
	_ portssvc.TaxonomySvc       = (*MockTaxonomyService)(nil)
	_ portssvc.ImportSvc         = (*MockImportService)(nil)
	_ portssvc.ExternalSourceSvc = (*MockExternalSourceService)(nil)
)
