package services

import (
	"strings"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

type columnRole int

const (
	roleDate columnRole = iota
	roleAmount
	roleSubcategory
	roleType
	roleCategory
	roleMemo
	roleAccount
)

// columnKeywords is checked top to bottom; a header takes the first role whose
// keywords it contains. Subcategory comes before type and category because its
// keywords contain theirs ("소분류" contains "분류").
var columnKeywords = []struct {
	role     columnRole
	keywords []string
}{
	{roleDate, []string{"날짜", "거래일", "일자", "date"}},
	{roleAmount, []string{"금액", "거래금액", "amount"}},
	{roleSubcategory, []string{"소분류", "세부분류", "하위분류", "subcategory", "sub_category", "sub category"}},
	{roleType, []string{"유형", "거래유형", "type", "분류"}},
	{roleCategory, []string{"카테고리", "분류", "category"}},
	{roleMemo, []string{"메모", "비고", "적요", "memo", "내용"}},
	{roleAccount, []string{"계좌", "통장", "account"}},
}

// DetectColumns suggests a column mapping from header names.
// The first header claiming a role keeps it.
func DetectColumns(headers []string) domain.ColumnMapping {
	var m domain.ColumnMapping
	for _, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		role, ok := matchRole(lower)
		if !ok {
			continue
		}
		slot := mappingSlot(&m, role)
		if *slot == "" {
			*slot = header
		}
	}
	return m
}

func matchRole(header string) (columnRole, bool) {
	for _, group := range columnKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(header, kw) {
				return group.role, true
			}
		}
	}
	return 0, false
}

func mappingSlot(m *domain.ColumnMapping, role columnRole) *string {
	switch role {
	case roleDate:
		return &m.Date
	case roleAmount:
		return &m.Amount
	case roleSubcategory:
		return &m.Subcategory
	case roleType:
		return &m.Type
	case roleCategory:
		return &m.Category
	case roleMemo:
		return &m.Memo
	default:
		return &m.Account
	}
}
