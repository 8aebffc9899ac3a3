package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/hihello1226/our-ledger/internal/apperrors"
)

// DatePreset is a named date window relative to "now".
type DatePreset string

const (
	PresetToday     DatePreset = "today"
	PresetThisWeek  DatePreset = "this_week"
	PresetThisMonth DatePreset = "this_month"
)

// SortKey is the primary ordering column of an entry listing.
type SortKey string

const (
	SortByOccurredAt SortKey = "occurred_at"
	SortByAmount     SortKey = "amount"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// UncategorizedMarker is the virtual category id meaning "no category".
const UncategorizedMarker = "uncategorized"

// EntryFilter describes which entries to list and how to order and page them.
type EntryFilter struct {
	HouseholdID string

	DateFrom *time.Time
	DateTo   *time.Time
	Preset   *DatePreset
	Month    *string // legacy YYYY-MM, used only when no other date bound is set

	CategoryIDs          []string
	IncludeUncategorized bool
	PayerMemberID        *string
	Shared               *bool
	Kinds                []EntryKind
	TransferKind         *TransferKind
	AccountIDs           []string
	AmountMin            *int64
	AmountMax            *int64
	MemoSearch           *string

	SortBy   SortKey
	SortDir  SortDirection
	Page     int
	PageSize int
}

// Normalize validates enums, resolves the effective date window against now and
// clamps paging. The returned filter has DateFrom/DateTo set (inclusive) when any
// date constraint applies, and Preset/Month cleared.
func (f EntryFilter) Normalize(now time.Time) (EntryFilter, error) {
	out := f

	switch {
	case f.Preset != nil:
		from, to, err := f.Preset.window(now)
		if err != nil {
			return EntryFilter{}, err
		}
		out.DateFrom, out.DateTo = &from, &to
	case f.DateFrom != nil || f.DateTo != nil:
		if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
			return EntryFilter{}, fmt.Errorf("%w: date_from must be before or equal to date_to", apperrors.ErrValidation)
		}
	case f.Month != nil && *f.Month != "":
		m, err := ParseMonth(*f.Month)
		if err != nil {
			return EntryFilter{}, err
		}
		start, next := m.Range()
		last := next.AddDate(0, 0, -1)
		out.DateFrom, out.DateTo = &start, &last
	}
	out.Preset = nil
	out.Month = nil

	for _, k := range f.Kinds {
		if !k.Valid() {
			return EntryFilter{}, fmt.Errorf("%w: types must be 'expense', 'income', or 'transfer'", apperrors.ErrValidation)
		}
	}
	if f.TransferKind != nil && !f.TransferKind.Valid() {
		return EntryFilter{}, fmt.Errorf("%w: transfer_type must be 'internal', 'external_out', or 'external_in'", apperrors.ErrValidation)
	}
	if f.AmountMin != nil && f.AmountMax != nil && *f.AmountMin > *f.AmountMax {
		return EntryFilter{}, fmt.Errorf("%w: amount_min must not exceed amount_max", apperrors.ErrValidation)
	}
	if f.MemoSearch != nil {
		s := strings.TrimSpace(*f.MemoSearch)
		if s == "" {
			out.MemoSearch = nil
		} else {
			out.MemoSearch = &s
		}
	}

	switch f.SortBy {
	case "":
		out.SortBy = SortByOccurredAt
	case SortByOccurredAt, SortByAmount:
	default:
		return EntryFilter{}, fmt.Errorf("%w: sort_by must be 'occurred_at' or 'amount'", apperrors.ErrValidation)
	}
	switch f.SortDir {
	case "":
		out.SortDir = SortDesc
	case SortAsc, SortDesc:
	default:
		return EntryFilter{}, fmt.Errorf("%w: sort_order must be 'asc' or 'desc'", apperrors.ErrValidation)
	}

	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	return out, nil
}

// SingleAccount returns the account id when exactly one account is filtered.
func (f EntryFilter) SingleAccount() (string, bool) {
	if len(f.AccountIDs) != 1 {
		return "", false
	}
	return f.AccountIDs[0], true
}

func (p DatePreset) window(now time.Time) (time.Time, time.Time, error) {
	today := TruncateToDate(now)
	switch p {
	case PresetToday:
		return today, today, nil
	case PresetThisWeek:
		// weeks start on Monday
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), nil
	case PresetThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 1, -1), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: date_preset must be 'today', 'this_week', or 'this_month'", apperrors.ErrValidation)
}

// EntryPage is one page of a filtered listing.
type EntryPage struct {
	Entries    []Entry
	TotalCount int
	Page       int
	PageSize   int
	Summary    EntrySummary
	Balances   map[string]int64 // entry id -> balance after the entry; single-account filters only
}
