package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
)

// categoryAliases maps free-text spellings found in bank exports to default category names.
var categoryAliases = map[string]string{
	"식사": "식비", "외식": "식비", "음식": "식비", "식당": "식비", "카페": "식비", "커피": "식비",
	"배달": "식비", "식료품": "식비", "마트": "식비", "편의점": "식비", "food": "식비", "restaurant": "식비",
	"택시": "교통", "버스": "교통", "지하철": "교통", "주유": "교통", "기름": "교통", "주차": "교통",
	"톨게이트": "교통", "transport": "교통", "taxi": "교통",
	"월세": "주거", "관리비": "주거", "전기": "주거", "가스": "주거", "수도": "주거", "rent": "주거",
	"핸드폰": "통신", "휴대폰": "통신", "인터넷": "통신", "전화": "통신", "phone": "통신",
	"병원": "의료", "약국": "의료", "치과": "의료", "한의원": "의료", "hospital": "의료",
	"영화": "문화/여가", "여행": "문화/여가", "공연": "문화/여가", "게임": "문화/여가", "운동": "문화/여가", "헬스": "문화/여가",
	"옷": "쇼핑", "의류": "쇼핑", "온라인쇼핑": "쇼핑", "쿠팡": "쇼핑", "shopping": "쇼핑",
	"학원": "교육", "도서": "교육", "책": "교육", "강의": "교육",
	"생활용품": "생활", "미용": "생활", "세탁": "생활",
	"축의금": "경조사", "조의금": "경조사", "선물": "경조사",
	"보험료": "보험", "세금": "세금", "국세": "세금", "지방세": "세금",
	"월급": "급여", "salary": "급여", "상여": "급여", "보너스": "급여",
	"부업": "부수입", "이자수입": "이자", "interest": "이자",
}

// taxonomyResolver matches spreadsheet names to categories, subcategories and accounts,
// creating missing ones when enabled. Created items are reused within the batch.
type taxonomyResolver struct {
	householdID string
	userID      string
	autoCreate  bool
	now         time.Time

	categories   []*domain.Category
	accounts     []*domain.Account
	accountRepo  portsrepo.AccountWriter
	categoryRepo portsrepo.CategoryWriter

	createdCategories    int
	createdSubcategories int
	createdAccounts      int
}

func newTaxonomyResolver(
	householdID, userID string,
	autoCreate bool,
	now time.Time,
	categories []domain.Category,
	accounts []domain.Account,
	accountRepo portsrepo.AccountWriter,
	categoryRepo portsrepo.CategoryWriter,
) *taxonomyResolver {
	r := &taxonomyResolver{
		householdID:  householdID,
		userID:       userID,
		autoCreate:   autoCreate,
		now:          now,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
	for i := range categories {
		c := categories[i]
		r.categories = append(r.categories, &c)
	}
	for i := range accounts {
		a := accounts[i]
		r.accounts = append(r.accounts, &a)
	}
	return r
}

func categoryTypeFor(kind domain.EntryKind) domain.CategoryType {
	if kind == domain.EntryKindIncome {
		return domain.CategoryTypeIncome
	}
	return domain.CategoryTypeExpense
}

// MatchCategory finds a category for name without creating one: exact case-insensitive
// match, then the alias table, then substring containment. Categories of the entry's
// type are preferred over the others at every step.
func (r *taxonomyResolver) MatchCategory(name string, kind domain.EntryKind) *domain.Category {
	want := categoryTypeFor(kind)
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	if c := r.pick(want, func(c *domain.Category) bool { return strings.ToLower(c.Name) == needle }); c != nil {
		return c
	}
	if canonical, ok := categoryAliases[needle]; ok {
		if c := r.pick(want, func(c *domain.Category) bool { return c.Name == canonical }); c != nil {
			return c
		}
	}
	return r.pick(want, func(c *domain.Category) bool {
		lower := strings.ToLower(c.Name)
		return strings.Contains(needle, lower) || strings.Contains(lower, needle)
	})
}

func (r *taxonomyResolver) pick(want domain.CategoryType, match func(*domain.Category) bool) *domain.Category {
	var fallback *domain.Category
	for _, c := range r.categories {
		if !match(c) {
			continue
		}
		if c.Type == want {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// ResolveCategory returns the category id for a row, creating the category when allowed.
// A nil name or an unresolved name without auto-creation falls back to defaultID.
func (r *taxonomyResolver) ResolveCategory(ctx context.Context, tx pgx.Tx, name *string, kind domain.EntryKind, defaultID *string) (*domain.Category, *string, error) {
	if name == nil {
		return nil, defaultID, nil
	}
	if c := r.MatchCategory(*name, kind); c != nil {
		return c, &c.CategoryID, nil
	}
	if !r.autoCreate {
		return nil, defaultID, nil
	}

	householdID := r.householdID
	c := &domain.Category{
		CategoryID:  uuid.NewString(),
		HouseholdID: &householdID,
		Name:        strings.TrimSpace(*name),
		Type:        categoryTypeFor(kind),
		SortOrder:   len(r.categories) + 1,
	}
	if err := r.categoryRepo.SaveCategoryTx(ctx, tx, *c); err != nil {
		return nil, nil, err
	}
	r.categories = append(r.categories, c)
	r.createdCategories++
	return c, &c.CategoryID, nil
}

// ResolveSubcategory matches name within category, creating it when allowed.
func (r *taxonomyResolver) ResolveSubcategory(ctx context.Context, tx pgx.Tx, category *domain.Category, name *string) (*string, error) {
	if category == nil || name == nil {
		return nil, nil
	}
	needle := strings.ToLower(strings.TrimSpace(*name))
	for _, sub := range category.Subcategories {
		if strings.ToLower(sub.Name) == needle {
			id := sub.SubcategoryID
			return &id, nil
		}
	}
	if !r.autoCreate {
		return nil, nil
	}

	sub := domain.Subcategory{
		SubcategoryID: uuid.NewString(),
		CategoryID:    category.CategoryID,
		Name:          strings.TrimSpace(*name),
		SortOrder:     len(category.Subcategories) + 1,
	}
	if err := r.categoryRepo.SaveSubcategoryTx(ctx, tx, sub); err != nil {
		return nil, err
	}
	category.Subcategories = append(category.Subcategories, sub)
	r.createdSubcategories++
	return &sub.SubcategoryID, nil
}

// ResolveAccount matches an account by case-insensitive name, creating a shared-visible
// account when allowed. Unresolved names fall back to defaultID.
func (r *taxonomyResolver) ResolveAccount(ctx context.Context, tx pgx.Tx, name *string, defaultID *string) (*string, error) {
	if name == nil {
		return defaultID, nil
	}
	needle := strings.ToLower(strings.TrimSpace(*name))
	for _, a := range r.accounts {
		if strings.ToLower(a.Name) == needle {
			id := a.AccountID
			return &id, nil
		}
	}
	if !r.autoCreate {
		return defaultID, nil
	}

	householdID := r.householdID
	a := &domain.Account{
		AccountID:       uuid.NewString(),
		OwnerUserID:     r.userID,
		HouseholdID:     &householdID,
		Name:            strings.TrimSpace(*name),
		Scope:           domain.AccountScopeShared,
		AccountType:     "other",
		IsSharedVisible: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     r.now,
			CreatedBy:     r.userID,
			LastUpdatedAt: r.now,
			LastUpdatedBy: r.userID,
		},
	}
	if err := r.accountRepo.SaveAccountTx(ctx, tx, *a); err != nil {
		return nil, err
	}
	r.accounts = append(r.accounts, a)
	r.createdAccounts++
	return &a.AccountID, nil
}
