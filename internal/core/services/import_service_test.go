package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/core/services"
)

type ImportServiceTestSuite struct {
	suite.Suite
	entryRepo     *MockEntryRepository
	accountRepo   *MockAccountRepository
	categoryRepo  *MockCategoryRepository
	householdRepo *MockHouseholdRepository
	events        *MockEventPublisher
	cache         *mapCache
	service       portssvc.ImportSvc
	ctx           context.Context
}

func (s *ImportServiceTestSuite) SetupTest() {
	s.entryRepo = new(MockEntryRepository)
	s.accountRepo = new(MockAccountRepository)
	s.categoryRepo = new(MockCategoryRepository)
	s.householdRepo = new(MockHouseholdRepository)
	s.events = new(MockEventPublisher)
	s.cache = newMapCache()
	s.service = services.NewImportService(s.entryRepo, s.accountRepo, s.categoryRepo, s.householdRepo, s.cache,
		services.WithImportClock(fixedClock), services.WithImportEvents(s.events))
	s.ctx = context.Background()
	s.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}

func defaultCategories() []domain.Category {
	return []domain.Category{
		{CategoryID: "cat-food", Name: "식비", Type: domain.CategoryTypeExpense},
		{CategoryID: "cat-transport", Name: "교통", Type: domain.CategoryTypeExpense},
		{CategoryID: "cat-salary", Name: "급여", Type: domain.CategoryTypeIncome},
	}
}

const sampleCSV = "날짜,금액,카테고리,메모\n" +
	"2024-03-01,15000,식사,저녁\n" +
	"2024-03-02,\"3,500\",택시,\n" +
	"bad-date,100,식비,oops\n" +
	"2024-03-03,abc,식비,oops\n"

func (s *ImportServiceTestSuite) preview(content string) *domain.ImportPreview {
	s.entryRepo.On("ListEntryFingerprints", mock.Anything, testHouseholdID).Return([]domain.EntryFingerprint{}, nil).Once()
	p, err := s.service.PreviewImport(s.ctx, testActor(), []byte(content), "bank.csv", "utf-8")
	s.Require().NoError(err)
	return p
}

func (s *ImportServiceTestSuite) TestPreviewImport() {
	p := s.preview(sampleCSV)

	s.NotEmpty(p.Key)
	s.Equal(4, p.TotalRows)
	s.Equal(domain.ColumnMapping{Date: "날짜", Amount: "금액", Category: "카테고리", Memo: "메모"}, p.SuggestedMapping)
	s.Require().Len(p.PreviewRows, 4)
	s.Equal(int64(3500), p.PreviewRows[1].Amount)
	s.Nil(p.PreviewRows[1].Memo)
	s.Equal("Invalid date: bad-date", *p.PreviewRows[2].Error)
	s.Equal("Invalid amount: abc", *p.PreviewRows[3].Error)

	cached, ok, _ := s.cache.Get(s.ctx, p.Key)
	s.True(ok)
	s.Equal(testHouseholdID, cached.HouseholdID)
}

func (s *ImportServiceTestSuite) TestPreviewImport_TooLarge() {
	svc := services.NewImportService(s.entryRepo, s.accountRepo, s.categoryRepo, s.householdRepo, s.cache,
		services.WithImportMaxBytes(10))

	_, err := svc.PreviewImport(s.ctx, testActor(), []byte(sampleCSV), "bank.csv", "")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ImportServiceTestSuite) TestConfirmImport_StaleAndForeignKeys() {
	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{Key: "nope"})
	s.Require().NoError(err)
	s.Equal([]string{domain.MsgUploadNotFound}, res.Errors)
	s.Zero(res.ImportedCount)

	_ = s.cache.Put(s.ctx, domain.UploadedTable{Key: "foreign", HouseholdID: "other-household"})
	res, err = s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{Key: "foreign"})
	s.Require().NoError(err)
	s.Equal([]string{domain.MsgUploadMismatch}, res.Errors)
	s.entryRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *ImportServiceTestSuite) TestConfirmImport_AliasMatchingAndRowErrors() {
	p := s.preview(sampleCSV)
	s.entryRepo.expectTx()
	s.entryRepo.On("ListEntryFingerprints", mock.Anything, testHouseholdID).Return([]domain.EntryFingerprint{}, nil).Once()
	s.categoryRepo.On("ListCategoriesForHousehold", s.ctx, testHouseholdID).Return(defaultCategories(), nil)
	s.accountRepo.On("ListAccountsByHousehold", s.ctx, testHouseholdID).Return([]domain.Account{}, nil)

	var saved []domain.Entry
	s.entryRepo.On("SaveEntryTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Entry")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(2).(domain.Entry)) }).
		Return(nil)

	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{
		Key:            p.Key,
		Mapping:        p.SuggestedMapping,
		SkipDuplicates: true,
	})

	s.Require().NoError(err)
	s.Equal(2, res.ImportedCount)
	s.Equal(2, res.ErrorCount)
	s.Equal([]string{"Row 3: Invalid date 'bad-date'", "Row 4: Invalid amount 'abc'"}, res.Errors)
	s.Require().Len(saved, 2)
	s.Equal(domain.EntryKindExpense, saved[0].Kind())
	s.Equal(int64(15000), saved[0].Amount)
	s.Equal("cat-food", *saved[0].CategoryID)
	s.Equal("cat-transport", *saved[1].CategoryID)
	s.Equal(testMemberA, saved[0].PayerMemberID)
	s.NotNil(saved[0].ImportHash)

	_, ok, _ := s.cache.Get(s.ctx, p.Key)
	s.False(ok, "confirmed uploads are discarded")
}

func (s *ImportServiceTestSuite) TestConfirmImport_SecondRunSkipsEverything() {
	csv := "date,amount,memo\n2024-03-01,15000,dinner\n2024-03-01,15000,dinner\n2024-03-02,800,coffee\n"
	p := s.preview(csv)
	s.entryRepo.expectTx()
	existing := []domain.EntryFingerprint{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: 15000, Memo: strPtr("dinner")},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Amount: 800, Memo: strPtr("coffee")},
	}
	s.entryRepo.On("ListEntryFingerprints", mock.Anything, testHouseholdID).Return(existing, nil).Once()
	s.categoryRepo.On("ListCategoriesForHousehold", s.ctx, testHouseholdID).Return(defaultCategories(), nil)
	s.accountRepo.On("ListAccountsByHousehold", s.ctx, testHouseholdID).Return([]domain.Account{}, nil)

	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{Key: p.Key, Mapping: p.SuggestedMapping, SkipDuplicates: true})

	s.Require().NoError(err)
	s.Zero(res.ImportedCount)
	s.Equal(3, res.SkippedCount)
	s.entryRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ImportServiceTestSuite) TestConfirmImport_InBatchDuplicates() {
	csv := "date,amount,memo\n2024-03-01,15000,dinner\n2024-03-01,15000,dinner\n"
	p := s.preview(csv)
	s.entryRepo.expectTx()
	s.entryRepo.On("ListEntryFingerprints", mock.Anything, testHouseholdID).Return([]domain.EntryFingerprint{}, nil).Once()
	s.categoryRepo.On("ListCategoriesForHousehold", s.ctx, testHouseholdID).Return(defaultCategories(), nil)
	s.accountRepo.On("ListAccountsByHousehold", s.ctx, testHouseholdID).Return([]domain.Account{}, nil)
	s.entryRepo.On("SaveEntryTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{Key: p.Key, Mapping: p.SuggestedMapping, SkipDuplicates: true})

	s.Require().NoError(err)
	s.Equal(1, res.ImportedCount)
	s.Equal(1, res.SkippedCount)
	s.entryRepo.AssertExpectations(s.T())
}

func (s *ImportServiceTestSuite) TestConfirmImport_AutoCreatesTaxonomyOnce() {
	csv := "date,amount,type,category,subcategory,account\n" +
		"2024-03-01,1000,expense,반려동물,사료,토스\n" +
		"2024-03-02,2000,expense,반려동물,사료,토스\n" +
		"2024-03-03,3000,이체,식비,,토스\n"
	p := s.preview(csv)
	s.entryRepo.expectTx()
	s.categoryRepo.On("ListCategoriesForHousehold", s.ctx, testHouseholdID).Return(defaultCategories(), nil)
	s.accountRepo.On("ListAccountsByHousehold", s.ctx, testHouseholdID).Return([]domain.Account{}, nil)
	s.categoryRepo.On("SaveCategoryTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "반려동물" && c.HouseholdID != nil && *c.HouseholdID == testHouseholdID
	})).Return(nil).Once()
	s.categoryRepo.On("SaveSubcategoryTx", mock.Anything, mock.Anything, mock.MatchedBy(func(sc domain.Subcategory) bool {
		return sc.Name == "사료"
	})).Return(nil).Once()
	s.accountRepo.On("SaveAccountTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "토스" && a.IsSharedVisible
	})).Return(nil).Once()
	s.entryRepo.On("SaveEntryTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{
		Key:      p.Key,
		Mapping:  p.SuggestedMapping,
		Defaults: domain.ImportDefaults{AutoCreateTaxonomy: true},
	})

	s.Require().NoError(err)
	s.Equal(2, res.ImportedCount)
	s.Equal(1, res.CreatedCategories)
	s.Equal(1, res.CreatedSubcategories)
	s.Equal(1, res.CreatedAccounts)
	s.Equal(1, res.ErrorCount)
	s.True(strings.HasPrefix(res.Errors[0], "Row 3: transfer rows"))
	s.categoryRepo.AssertExpectations(s.T())
	s.accountRepo.AssertExpectations(s.T())
}

func (s *ImportServiceTestSuite) TestConfirmImport_ErrorListIsCapped() {
	var b strings.Builder
	b.WriteString("date,amount\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "nope-%d,100\n", i)
	}
	p := s.preview(b.String())
	s.entryRepo.expectTx()
	s.categoryRepo.On("ListCategoriesForHousehold", s.ctx, testHouseholdID).Return(defaultCategories(), nil)
	s.accountRepo.On("ListAccountsByHousehold", s.ctx, testHouseholdID).Return([]domain.Account{}, nil)

	res, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{Key: p.Key, Mapping: p.SuggestedMapping})

	s.Require().NoError(err)
	s.Equal(25, res.ErrorCount)
	s.Len(res.Errors, domain.MaxImportErrors)
}

func (s *ImportServiceTestSuite) TestConfirmImport_InvalidPayer() {
	p := s.preview(sampleCSV)
	s.householdRepo.On("ListMembers", s.ctx, testHouseholdID).Return(testMembers(), nil)

	_, err := s.service.ConfirmImport(s.ctx, testActor(), domain.ImportRequest{
		Key:      p.Key,
		Mapping:  p.SuggestedMapping,
		Defaults: domain.ImportDefaults{PayerMemberID: "not-a-member"},
	})

	s.ErrorIs(err, apperrors.ErrValidation)
	_, ok, _ := s.cache.Get(s.ctx, p.Key)
	s.True(ok, "a rejected confirm keeps the upload")
}
