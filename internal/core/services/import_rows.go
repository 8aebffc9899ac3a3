package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// importDateLayouts are tried in order; the first that parses wins.
// Single-digit layouts also accept zero-padded input.
var importDateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2/1/2006",
	"1/2/2006",
	"2006년 1월 2일",
}

// Amounts are stored as int64; the bound is symmetric so the absolute value always fits.
var (
	minImportAmount = decimal.NewFromInt(-math.MaxInt64)
	maxImportAmount = decimal.NewFromInt(math.MaxInt64)
)

var amountStripper = strings.NewReplacer(",", "", " ", "", "원", "", "₩", "", "$", "")

// ParseImportDate parses a spreadsheet date cell as a UTC calendar date.
func ParseImportDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseImportAmount parses an amount cell. Thousands separators and currency marks are
// ignored, parentheses mean negative and fractions are truncated toward zero.
func ParseImportAmount(s string) (int64, bool) {
	cleaned := amountStripper.Replace(s)
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	d = d.Truncate(0)
	if d.LessThan(minImportAmount) || d.GreaterThan(maxImportAmount) {
		return 0, false
	}
	return d.IntPart(), true
}

// InferEntryKind reads the kind from a type cell. Income keywords are checked before
// transfer keywords; anything else is an expense.
func InferEntryKind(typeValue string) domain.EntryKind {
	v := strings.ToLower(typeValue)
	switch {
	case strings.Contains(v, "income") || strings.Contains(v, "수입"):
		return domain.EntryKindIncome
	case strings.Contains(v, "transfer") || strings.Contains(v, "이체"):
		return domain.EntryKindTransfer
	}
	return domain.EntryKindExpense
}

// ImportHash is the dedup fingerprint of a row: date, absolute amount and memo.
func ImportHash(date time.Time, amount int64, memo *string) string {
	if amount < 0 {
		amount = -amount
	}
	m := ""
	if memo != nil {
		m = *memo
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d|%s", date.Format(domain.DateLayout), amount, m)))
	return hex.EncodeToString(sum[:])
}

// importRow is one interpreted spreadsheet row.
type importRow struct {
	Number      int
	RawDate     string
	RawAmount   string
	Date        time.Time
	Amount      int64
	Kind        domain.EntryKind
	Category    *string
	Subcategory *string
	Memo        *string
	Account     *string
	DateOK      bool
	AmountOK    bool
}

// Hash is the dedup fingerprint of the row.
func (r importRow) Hash() string {
	return ImportHash(r.Date, r.Amount, r.Memo)
}

// interpretRow reads the mapped cells of one row. Amounts are stored as absolute values.
func interpretRow(number int, row map[string]string, m domain.ColumnMapping) importRow {
	r := importRow{
		Number:      number,
		RawDate:     cell(row, m.Date),
		RawAmount:   cell(row, m.Amount),
		Kind:        domain.EntryKindExpense,
		Category:    optionalCell(row, m.Category),
		Subcategory: optionalCell(row, m.Subcategory),
		Memo:        optionalCell(row, m.Memo),
		Account:     optionalCell(row, m.Account),
	}
	r.Date, r.DateOK = ParseImportDate(r.RawDate)
	amount, ok := ParseImportAmount(r.RawAmount)
	if amount < 0 {
		amount = -amount
	}
	r.Amount, r.AmountOK = amount, ok
	if t := cell(row, m.Type); t != "" {
		r.Kind = InferEntryKind(t)
	}
	return r
}

func cell(row map[string]string, column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(row[column])
}

func optionalCell(row map[string]string, column string) *string {
	v := cell(row, column)
	if v == "" {
		return nil
	}
	return &v
}
