package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/utils/pagination"
)

// ListEntriesParams defines the query parameters of the entry listing.
// List-valued parameters are comma separated.
type ListEntriesParams struct {
	Month         string `form:"month"`
	DateFrom      string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	DatePreset    string `form:"date_preset" binding:"omitempty,oneof=today this_week this_month"`
	CategoryID    string `form:"category_id" binding:"omitempty,uuid"`
	CategoryIDs   string `form:"category_ids"`
	PayerMemberID string `form:"payer_member_id" binding:"omitempty,uuid"`
	Shared        *bool  `form:"shared"`
	Type          string `form:"type"`
	Types         string `form:"types"`
	TransferType  string `form:"transfer_type"`
	AccountIDs    string `form:"account_ids"`
	AmountMin     *int64 `form:"amount_min"`
	AmountMax     *int64 `form:"amount_max"`
	MemoSearch    string `form:"memo_search"`
	SortBy        string `form:"sort_by,default=occurred_at"`
	SortOrder     string `form:"sort_order,default=desc"`
	Page          int    `form:"page,default=1" binding:"gte=1"`
	PageSize      int    `form:"page_size,default=50" binding:"gte=1"`
}

// ToFilter converts the raw query parameters into an entry filter.
// Enum values are validated later by the filter itself.
func (p ListEntriesParams) ToFilter() (domain.EntryFilter, error) {
	f := domain.EntryFilter{
		Shared:    p.Shared,
		AmountMin: p.AmountMin,
		AmountMax: p.AmountMax,
		SortBy:    domain.SortKey(p.SortBy),
		SortDir:   domain.SortDirection(p.SortOrder),
		Page:      p.Page,
		PageSize:  p.PageSize,
	}

	var err error
	if f.DateFrom, err = parseOptionalDate("date_from", p.DateFrom); err != nil {
		return domain.EntryFilter{}, err
	}
	if f.DateTo, err = parseOptionalDate("date_to", p.DateTo); err != nil {
		return domain.EntryFilter{}, err
	}
	if p.DatePreset != "" {
		preset := domain.DatePreset(p.DatePreset)
		f.Preset = &preset
	}
	if p.Month != "" {
		month := p.Month
		f.Month = &month
	}

	if p.CategoryID != "" {
		f.CategoryIDs = append(f.CategoryIDs, p.CategoryID)
	}
	for _, id := range splitList(p.CategoryIDs) {
		if id == domain.UncategorizedMarker {
			f.IncludeUncategorized = true
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return domain.EntryFilter{}, fmt.Errorf("%w: Invalid category_ids format", apperrors.ErrValidation)
		}
		f.CategoryIDs = append(f.CategoryIDs, id)
	}

	for _, id := range splitList(p.AccountIDs) {
		if _, err := uuid.Parse(id); err != nil {
			return domain.EntryFilter{}, fmt.Errorf("%w: Invalid account_ids format", apperrors.ErrValidation)
		}
		f.AccountIDs = append(f.AccountIDs, id)
	}

	if p.Type != "" {
		f.Kinds = append(f.Kinds, domain.EntryKind(p.Type))
	}
	for _, t := range splitList(p.Types) {
		f.Kinds = append(f.Kinds, domain.EntryKind(t))
	}
	if p.TransferType != "" {
		tk := domain.TransferKind(p.TransferType)
		f.TransferKind = &tk
	}
	if p.PayerMemberID != "" {
		payer := p.PayerMemberID
		f.PayerMemberID = &payer
	}
	if p.MemoSearch != "" {
		search := p.MemoSearch
		f.MemoSearch = &search
	}
	return f, nil
}

// CreateEntryRequest defines the data needed to record a new entry.
// Either OccurredAt or Date must be given; Date alone means midnight of that day.
type CreateEntryRequest struct {
	Type          domain.EntryKind     `json:"type" binding:"required,oneof=income expense transfer"`
	TransferKind  *domain.TransferKind `json:"transferKind" binding:"omitempty,oneof=internal external_out external_in"`
	Amount        int64                `json:"amount" binding:"gte=0"`
	OccurredAt    *time.Time           `json:"occurredAt"`
	Date          string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	CategoryID    *string              `json:"categoryID" binding:"omitempty,uuid"`
	SubcategoryID *string              `json:"subcategoryID" binding:"omitempty,uuid"`
	Memo          *string              `json:"memo" binding:"omitempty,max=500"`
	PayerMemberID string               `json:"payerMemberID" binding:"required,uuid"`
	Shared        bool                 `json:"shared"`
	AccountID     *string              `json:"accountID" binding:"omitempty,uuid"`
	FromAccountID *string              `json:"fromAccountID" binding:"omitempty,uuid"`
	ToAccountID   *string              `json:"toAccountID" binding:"omitempty,uuid"`
}

// ToDraft converts the request into an unvalidated entry draft.
func (r CreateEntryRequest) ToDraft() (domain.EntryDraft, error) {
	occurredAt, err := occurrence(r.OccurredAt, r.Date)
	if err != nil {
		return domain.EntryDraft{}, err
	}
	if occurredAt == nil {
		return domain.EntryDraft{}, fmt.Errorf("%w: occurredAt or date is required", apperrors.ErrValidation)
	}
	return domain.EntryDraft{
		Kind:          r.Type,
		TransferKind:  r.TransferKind,
		Amount:        r.Amount,
		OccurredAt:    *occurredAt,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Memo:          r.Memo,
		PayerMemberID: r.PayerMemberID,
		Shared:        r.Shared,
		AccountID:     r.AccountID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
	}, nil
}

// UpdateEntryRequest lists the entry fields that may change. Omitted fields stay as they are;
// the clear flags remove optional references.
type UpdateEntryRequest struct {
	Type             *domain.EntryKind    `json:"type"`
	TransferKind     *domain.TransferKind `json:"transferKind"`
	Amount           *int64               `json:"amount"`
	OccurredAt       *time.Time           `json:"occurredAt"`
	Date             string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	CategoryID       *string              `json:"categoryID"`
	ClearCategory    bool                 `json:"clearCategory"`
	SubcategoryID    *string              `json:"subcategoryID"`
	ClearSubcategory bool                 `json:"clearSubcategory"`
	Memo             *string              `json:"memo"`
	ClearMemo        bool                 `json:"clearMemo"`
	PayerMemberID    *string              `json:"payerMemberID"`
	Shared           *bool                `json:"shared"`
	AccountID        *string              `json:"accountID"`
	ClearAccount     bool                 `json:"clearAccount"`
	FromAccountID    *string              `json:"fromAccountID"`
	ToAccountID      *string              `json:"toAccountID"`
}

// ToCommand converts the request into an update command. Field validation happens in the service.
func (r UpdateEntryRequest) ToCommand() (domain.EntryUpdateCommand, error) {
	occurredAt, err := occurrence(r.OccurredAt, r.Date)
	if err != nil {
		return domain.EntryUpdateCommand{}, err
	}
	return domain.EntryUpdateCommand{
		Kind:             r.Type,
		TransferKind:     r.TransferKind,
		Amount:           r.Amount,
		OccurredAt:       occurredAt,
		CategoryID:       r.CategoryID,
		ClearCategory:    r.ClearCategory,
		SubcategoryID:    r.SubcategoryID,
		ClearSubcategory: r.ClearSubcategory,
		Memo:             r.Memo,
		ClearMemo:        r.ClearMemo,
		PayerMemberID:    r.PayerMemberID,
		Shared:           r.Shared,
		AccountID:        r.AccountID,
		ClearAccount:     r.ClearAccount,
		FromAccountID:    r.FromAccountID,
		ToAccountID:      r.ToAccountID,
	}, nil
}

// BulkDeleteEntriesRequest names the entries to remove.
type BulkDeleteEntriesRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1,max=500,dive,uuid"`
}

// BulkDeleteEntriesResponse reports how many entries were removed.
type BulkDeleteEntriesResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// EntryResponse is the flat wire form of an entry.
type EntryResponse struct {
	EntryID       string               `json:"entryID"`
	HouseholdID   string               `json:"householdID"`
	Type          domain.EntryKind     `json:"type"`
	TransferKind  *domain.TransferKind `json:"transferKind,omitempty"`
	Amount        int64                `json:"amount"`
	OccurredAt    time.Time            `json:"occurredAt"`
	Date          string               `json:"date"`
	CategoryID    *string              `json:"categoryID,omitempty"`
	SubcategoryID *string              `json:"subcategoryID,omitempty"`
	Memo          *string              `json:"memo,omitempty"`
	PayerMemberID string               `json:"payerMemberID"`
	Shared        bool                 `json:"shared"`
	AccountID     *string              `json:"accountID,omitempty"`
	FromAccountID *string              `json:"fromAccountID,omitempty"`
	ToAccountID   *string              `json:"toAccountID,omitempty"`
	BalanceAfter  *int64               `json:"balanceAfter,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ListEntriesResponse is one page of entries plus the summary of the whole filtered set.
type ListEntriesResponse struct {
	Entries    []EntryResponse     `json:"entries"`
	Pagination pagination.Meta     `json:"pagination"`
	Summary    domain.EntrySummary `json:"summary"`
}

// ToEntryResponse flattens an entry for the wire.
func ToEntryResponse(e domain.Entry) EntryResponse {
	d := e.Draft()
	return EntryResponse{
		EntryID:       e.EntryID,
		HouseholdID:   e.HouseholdID,
		Type:          d.Kind,
		TransferKind:  d.TransferKind,
		Amount:        e.Amount,
		OccurredAt:    e.OccurredAt,
		Date:          e.Date.Format(domain.DateLayout),
		CategoryID:    e.CategoryID,
		SubcategoryID: e.SubcategoryID,
		Memo:          e.Memo,
		PayerMemberID: e.PayerMemberID,
		Shared:        d.Shared,
		AccountID:     d.AccountID,
		FromAccountID: d.FromAccountID,
		ToAccountID:   d.ToAccountID,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToListEntriesResponse converts a page, attaching running balances where present.
func ToListEntriesResponse(page *domain.EntryPage) ListEntriesResponse {
	entries := make([]EntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		entries[i] = ToEntryResponse(e)
		if balance, ok := page.Balances[e.EntryID]; ok {
			entries[i].BalanceAfter = &balance
		}
	}
	return ListEntriesResponse{
		Entries:    entries,
		Pagination: pagination.NewMeta(page.Page, page.PageSize, page.TotalCount),
		Summary:    page.Summary,
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseOptionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be in YYYY-MM-DD format", apperrors.ErrValidation, field)
	}
	return &t, nil
}

func occurrence(at *time.Time, date string) (*time.Time, error) {
	if at != nil {
		return at, nil
	}
	return parseOptionalDate("date", date)
}
