package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/handlers"
	"github.com/hihello1226/our-ledger/internal/platform/config"
)

const (
	testUserID      = "user-1"
	testHouseholdID = "7a1c9e52-3b4d-4f6a-9c8e-1d2f3a4b5c01"
	testMemberID    = "2e4f6a8c-0b1d-4c3e-8f5a-7b9c1d3e5f01"
	testAccountID   = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b01"
)

func testMembership() domain.Membership {
	return domain.Membership{
		Household: domain.Household{HouseholdID: testHouseholdID, Name: "우리집"},
		Member:    domain.HouseholdMember{MemberID: testMemberID, HouseholdID: testHouseholdID, UserID: testUserID, Name: "민지"},
	}
}

// HandlerTestSuite drives the full router with the real auth and household middleware.
type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	jwtSecret      string
	households     *MockHouseholdService
	entries        *MockEntryService
	summaries      *MockSummaryService
	settlements    *MockSettlementService
	taxonomy       *MockTaxonomyService
	imports        *MockImportService
	externalSource *MockExternalSourceService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.households = new(MockHouseholdService)
	suite.entries = new(MockEntryService)
	suite.summaries = new(MockSummaryService)
	suite.settlements = new(MockSettlementService)
	suite.taxonomy = new(MockTaxonomyService)
	suite.imports = new(MockImportService)
	suite.externalSource = new(MockExternalSourceService)

	actor := testMembership()
	suite.households.On("ResolveMembership", mock.Anything, testUserID).Return(&actor, nil).Maybe()

	cfg := &config.Config{
		JWTSecret:          suite.jwtSecret,
		IsProduction:       true,
		AllowedOrigins:     []string{"http://localhost:3000"},
		ImportMaxFileBytes: 1 << 10,
		ImportRateLimit:    "1000-M",
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Household:      suite.households,
		Entry:          suite.entries,
		Summary:        suite.summaries,
		Settlement:     suite.settlements,
		Taxonomy:       suite.taxonomy,
		Import:         suite.imports,
		ExternalSource: suite.externalSource,
	})
}

// generateTestToken creates a dummy JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// --- Auth and household ---

func (suite *HandlerTestSuite) TestHealthIsPublic() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestUserWithoutHousehold() {
	suite.households.On("ResolveMembership", mock.Anything, "loner").Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("loner"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("You don't belong to any household", suite.errorBody(w))
}

// --- Entries ---

func (suite *HandlerTestSuite) TestListEntries_Success() {
	acct := testAccountID
	at := time.Date(2024, 3, 5, 19, 0, 0, 0, time.UTC)
	page := &domain.EntryPage{
		Entries: []domain.Entry{
			{EntryID: "e1", HouseholdID: testHouseholdID, Amount: 15000, OccurredAt: at, Date: domain.TruncateToDate(at), PayerMemberID: testMemberID, Detail: domain.ExpenseDetail{AccountID: &acct}},
		},
		TotalCount: 1,
		Page:       1,
		PageSize:   20,
		Summary:    domain.EntrySummary{TotalExpense: 15000, Net: -15000},
		Balances:   map[string]int64{"e1": 85000},
	}
	suite.entries.On("QueryEntries", mock.Anything, testMembership(), mock.MatchedBy(func(f domain.EntryFilter) bool {
		return len(f.AccountIDs) == 1 && f.AccountIDs[0] == testAccountID &&
			f.IncludeUncategorized && f.PageSize == 20 && f.SortBy == domain.SortByAmount
	})).Return(page, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries?account_ids="+testAccountID+"&category_ids=uncategorized&page_size=20&sort_by=amount", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Equal(int64(85000), *resp.Entries[0].BalanceAfter)
	suite.Equal(domain.EntryKindExpense, resp.Entries[0].Type)
	suite.Equal(int64(-15000), resp.Summary.Net)
	suite.Equal(1, resp.Pagination.TotalPages)
	suite.entries.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListEntries_InvalidCategoryIDs() {
	w := suite.do(http.MethodGet, "/api/v1/entries?category_ids=food", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid category_ids format", suite.errorBody(w))
	suite.entries.AssertNotCalled(suite.T(), "QueryEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestListEntries_ServiceErrors() {
	suite.entries.On("QueryEntries", mock.Anything, mock.Anything, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.SortDir == "sideways"
	})).Return(nil, fmt.Errorf("%w: sort_order must be 'asc' or 'desc'", apperrors.ErrValidation)).Once()
	suite.entries.On("QueryEntries", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries?sort_order=sideways", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("sort_order must be 'asc' or 'desc'", suite.errorBody(w))

	w = suite.do(http.MethodGet, "/api/v1/entries", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to list entries", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestCreateEntry_TransferSameAccount() {
	suite.entries.On("CreateEntry", mock.Anything, testMembership(), mock.MatchedBy(func(d domain.EntryDraft) bool {
		return d.Kind == domain.EntryKindTransfer && *d.FromAccountID == *d.ToAccountID
	})).Return(nil, fmt.Errorf("%w: from_account and to_account must differ", apperrors.ErrValidation)).Once()

	acct := testAccountID
	w := suite.do(http.MethodPost, "/api/v1/entries", dto.CreateEntryRequest{
		Type:          domain.EntryKindTransfer,
		Amount:        1000,
		Date:          "2024-03-01",
		PayerMemberID: testMemberID,
		FromAccountID: &acct,
		ToAccountID:   &acct,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("from_account and to_account must differ", suite.errorBody(w))
	suite.entries.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateEntry_BindingRejectsUnknownType() {
	w := suite.do(http.MethodPost, "/api/v1/entries", map[string]any{
		"type":          "gift",
		"amount":        1000,
		"date":          "2024-03-01",
		"payerMemberID": testMemberID,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.entries.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := &domain.Entry{EntryID: "e9", HouseholdID: testHouseholdID, Amount: 15000, OccurredAt: at, Date: at, PayerMemberID: testMemberID, Detail: domain.ExpenseDetail{Shared: true}}
	suite.entries.On("CreateEntry", mock.Anything, testMembership(), mock.MatchedBy(func(d domain.EntryDraft) bool {
		return d.Kind == domain.EntryKindExpense && d.Shared && d.OccurredAt.Equal(at)
	})).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries", dto.CreateEntryRequest{
		Type:          domain.EntryKindExpense,
		Amount:        15000,
		Date:          "2024-03-01",
		PayerMemberID: testMemberID,
		Shared:        true,
	})

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("e9", resp.EntryID)
	suite.True(resp.Shared)
	suite.Equal("2024-03-01", resp.Date)
}

func (suite *HandlerTestSuite) TestGetEntry_NotFound() {
	suite.entries.On("GetEntry", mock.Anything, testMembership(), "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEntry_PassesCommand() {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := &domain.Entry{EntryID: "e1", Amount: 2000, OccurredAt: at, Date: at, Detail: domain.IncomeDetail{}}
	suite.entries.On("UpdateEntry", mock.Anything, testMembership(), "e1", mock.MatchedBy(func(cmd domain.EntryUpdateCommand) bool {
		return cmd.Amount != nil && *cmd.Amount == 2000 && cmd.ClearMemo && cmd.Kind == nil
	})).Return(updated, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/entries/e1", map[string]any{"amount": 2000, "clearMemo": true})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	suite.entries.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeleteEntry() {
	suite.entries.On("DeleteEntry", mock.Anything, testMembership(), "e1").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/entries/e1", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestBulkDeleteEntries() {
	ids := []string{testAccountID, testMemberID}
	suite.entries.On("BulkDeleteEntries", mock.Anything, testMembership(), ids).Return(int64(1), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries/bulk-delete", dto.BulkDeleteEntriesRequest{EntryIDs: ids})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.BulkDeleteEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1), resp.DeletedCount)
}

// --- Reporting ---

func (suite *HandlerTestSuite) TestSummary_InvalidMonth() {
	w := suite.do(http.MethodGet, "/api/v1/summary?month=2024-13", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("month must be in YYYY-MM format", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestSummary_PassesAccountFilter() {
	summary := &domain.MonthlySummary{Month: "2024-03", TotalExpense: 40000}
	suite.summaries.On("MonthlySummary", mock.Anything, testMembership(), domain.Month("2024-03"), []string{"a1", "a2"}).Return(summary, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/summary?month=2024-03&account_ids=a1,a2", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	suite.summaries.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSettlement_Get() {
	report := &domain.SettlementReport{Plan: domain.SettlementPlan{
		Month:       "2024-03",
		TotalShared: 40000,
		PerPerson:   20000,
		Edges:       []domain.SettlementEdge{{FromMemberID: "b", ToMemberID: "a", Amount: 10000}},
	}}
	suite.settlements.On("ComputeSettlement", mock.Anything, testMembership(), domain.Month("2024-03")).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/settlement?month=2024-03", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp domain.SettlementReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(10000), resp.Plan.Edges[0].Amount)
}

func (suite *HandlerTestSuite) TestSettlement_SaveRecord() {
	record := &domain.MonthlySettlement{SettlementID: "s1", UserID: "user-2", Month: "2024-03", Amount: -10000}
	suite.settlements.On("SaveSettlementRecord", mock.Anything, testMembership(), "user-2", domain.Month("2024-03"), int64(-10000)).Return(record, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/settlement/records", dto.SaveSettlementRecordRequest{UserID: "user-2", Month: "2024-03", Amount: -10000})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestSettlement_Finalize() {
	records := []domain.MonthlySettlement{{SettlementID: "s1", Month: "2024-03", IsFinalized: true}}
	suite.settlements.On("FinalizeMonth", mock.Anything, testMembership(), domain.Month("2024-03")).Return(records, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/settlement/finalize", dto.FinalizeMonthRequest{Month: "2024-03"})

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.FinalizeMonthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Records[0].IsFinalized)
}

// --- Taxonomy ---

func (suite *HandlerTestSuite) TestListCategories() {
	suite.taxonomy.On("ListCategories", mock.Anything, testMembership()).Return([]domain.Category{{CategoryID: "c1", Name: "식비", Type: domain.CategoryTypeExpense}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/categories", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListCategoriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("식비", resp.Categories[0].Name)
}

// --- Import ---

func (suite *HandlerTestSuite) upload(filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(mw.WriteField("encoding", "cp949"))
	suite.Require().NoError(mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/import/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestUpload_Preview() {
	content := []byte("날짜,금액,카테고리,메모\n2024-03-01,15000,식비,저녁\n")
	preview := &domain.ImportPreview{Key: "file-1", TotalRows: 1, DetectedColumns: []string{"날짜", "금액", "카테고리", "메모"}}
	suite.imports.On("PreviewImport", mock.Anything, testMembership(), content, "bank.csv", "cp949").Return(preview, nil).Once()

	w := suite.upload("bank.csv", content)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp domain.ImportPreview
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("file-1", resp.Key)
	suite.imports.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpload_TooLarge() {
	w := suite.upload("big.csv", bytes.Repeat([]byte("a"), 2<<10))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.imports.AssertNotCalled(suite.T(), "PreviewImport", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestUpload_MissingFile() {
	w := suite.do(http.MethodPost, "/api/v1/import/upload", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestConfirm_StaleHandleIsNotAnError() {
	stale := domain.StaleImportResult(domain.MsgUploadNotFound)
	suite.imports.On("ConfirmImport", mock.Anything, testMembership(), mock.MatchedBy(func(r domain.ImportRequest) bool {
		return r.Key == "gone" && r.SkipDuplicates && r.Defaults.PayerMemberID == testMemberID
	})).Return(&stale, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/import/confirm", dto.ConfirmImportRequest{FileID: "gone", PayerMemberID: testMemberID})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp domain.ImportResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{domain.MsgUploadNotFound}, resp.Errors)
	suite.Zero(resp.ImportedCount)
}

// --- External sources ---

func (suite *HandlerTestSuite) TestSyncImport_SheetsNotConfigured() {
	suite.externalSource.On("SyncImport", mock.Anything, testMembership(), "src-1", testMemberID).
		Return(nil, apperrors.NewAppError(http.StatusServiceUnavailable, "google sheets integration is not configured", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/external-sources/src-1/sync-import", dto.SyncImportRequest{PayerMemberID: testMemberID})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("google sheets integration is not configured", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestCreateSource_DefaultMapping() {
	suite.externalSource.On("CreateSource", mock.Anything, testMembership(), mock.MatchedBy(func(s domain.ExternalDataSource) bool {
		return s.SheetID == "sheet-abc" && s.ColumnMapping == domain.DefaultSheetColumnMapping()
	})).Return(&domain.ExternalDataSource{SourceID: "src-9", SheetID: "sheet-abc"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/external-sources", dto.CreateExternalSourceRequest{SheetID: "sheet-abc"})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.externalSource.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSyncExport_Success() {
	suite.externalSource.On("SyncExport", mock.Anything, testMembership(), "src-1").Return(&domain.SyncExportResult{ExportedCount: 3, LastSyncedRow: 4}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/external-sources/src-1/sync-export", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp domain.SyncExportResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.ExportedCount)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
