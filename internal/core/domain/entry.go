package domain

import (
	"fmt"
	"time"

	"github.com/hihello1226/our-ledger/internal/apperrors"
)

// EntryKind is the coarse type of a ledger entry.
type EntryKind string

const (
	EntryKindIncome   EntryKind = "income"
	EntryKindExpense  EntryKind = "expense"
	EntryKindTransfer EntryKind = "transfer"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindIncome, EntryKindExpense, EntryKindTransfer:
		return true
	}
	return false
}

// TransferKind qualifies a transfer entry.
type TransferKind string

const (
	TransferInternal    TransferKind = "internal"
	TransferExternalOut TransferKind = "external_out"
	TransferExternalIn  TransferKind = "external_in"
)

func (k TransferKind) Valid() bool {
	switch k {
	case TransferInternal, TransferExternalOut, TransferExternalIn:
		return true
	}
	return false
}

// EntryDetail is the kind-specific payload of an Entry.
// Only IncomeDetail, ExpenseDetail and TransferDetail implement it.
type EntryDetail interface {
	Kind() EntryKind
	isEntryDetail()
}

// IncomeDetail is money flowing into the household.
type IncomeDetail struct {
	AccountID *string
}

// ExpenseDetail is money leaving the household. Shared expenses take part in settlement.
type ExpenseDetail struct {
	AccountID *string
	Shared    bool
}

// TransferDetail moves money between two distinct accounts.
type TransferDetail struct {
	TransferKind  TransferKind
	FromAccountID string
	ToAccountID   string
}

func (IncomeDetail) Kind() EntryKind   { return EntryKindIncome }
func (ExpenseDetail) Kind() EntryKind  { return EntryKindExpense }
func (TransferDetail) Kind() EntryKind { return EntryKindTransfer }

func (IncomeDetail) isEntryDetail()   {}
func (ExpenseDetail) isEntryDetail()  {}
func (TransferDetail) isEntryDetail() {}

// Entry is a single recorded financial event.
type Entry struct {
	EntryID       string      `json:"entryID"`
	HouseholdID   string      `json:"householdID"`
	Amount        int64       `json:"amount"` // minor currency units, never negative
	OccurredAt    time.Time   `json:"occurredAt"`
	Date          time.Time   `json:"date"` // legacy calendar date, kept for sort compatibility
	CategoryID    *string     `json:"categoryID,omitempty"`
	SubcategoryID *string     `json:"subcategoryID,omitempty"`
	Memo          *string     `json:"memo,omitempty"`
	PayerMemberID string      `json:"payerMemberID"`
	Detail        EntryDetail `json:"-"`
	ImportHash    *string     `json:"-"`
	AuditFields
}

// Kind returns the kind of the entry's payload.
func (e Entry) Kind() EntryKind {
	if e.Detail == nil {
		return ""
	}
	return e.Detail.Kind()
}

// IsShared is true only for shared expenses.
func (e Entry) IsShared() bool {
	d, ok := e.Detail.(ExpenseDetail)
	return ok && d.Shared
}

// AccountID returns the primary account reference of an income or expense.
// Transfers have no primary account.
func (e Entry) AccountID() *string {
	switch d := e.Detail.(type) {
	case IncomeDetail:
		return d.AccountID
	case ExpenseDetail:
		return d.AccountID
	}
	return nil
}

// Transfer returns the transfer payload, if any.
func (e Entry) Transfer() (TransferDetail, bool) {
	d, ok := e.Detail.(TransferDetail)
	return d, ok
}

// Touches reports whether the entry references accountID in any role.
func (e Entry) Touches(accountID string) bool {
	if id := e.AccountID(); id != nil && *id == accountID {
		return true
	}
	if t, ok := e.Transfer(); ok {
		return t.FromAccountID == accountID || t.ToAccountID == accountID
	}
	return false
}

// EntryDraft is the flat, unvalidated shape entries are built from.
type EntryDraft struct {
	Kind          EntryKind
	TransferKind  *TransferKind
	Amount        int64
	OccurredAt    time.Time
	CategoryID    *string
	SubcategoryID *string
	Memo          *string
	PayerMemberID string
	Shared        bool
	AccountID     *string
	FromAccountID *string
	ToAccountID   *string
}

// BuildDetail validates the kind-specific fields of d and returns the matching payload.
func (d EntryDraft) BuildDetail() (EntryDetail, error) {
	switch d.Kind {
	case EntryKindIncome, EntryKindExpense:
		if d.TransferKind != nil {
			return nil, fmt.Errorf("%w: transfer_kind is only allowed on transfers", apperrors.ErrValidation)
		}
		if d.FromAccountID != nil || d.ToAccountID != nil {
			return nil, fmt.Errorf("%w: from/to accounts are only allowed on transfers", apperrors.ErrValidation)
		}
		if d.Kind == EntryKindIncome {
			if d.Shared {
				return nil, fmt.Errorf("%w: only expenses can be shared", apperrors.ErrValidation)
			}
			return IncomeDetail{AccountID: d.AccountID}, nil
		}
		return ExpenseDetail{AccountID: d.AccountID, Shared: d.Shared}, nil
	case EntryKindTransfer:
		if d.FromAccountID == nil || d.ToAccountID == nil || *d.FromAccountID == "" || *d.ToAccountID == "" {
			return nil, fmt.Errorf("%w: transfers require both from_account and to_account", apperrors.ErrValidation)
		}
		if *d.FromAccountID == *d.ToAccountID {
			return nil, fmt.Errorf("%w: from_account and to_account must differ", apperrors.ErrValidation)
		}
		if d.AccountID != nil {
			return nil, fmt.Errorf("%w: transfers use from/to accounts, not account", apperrors.ErrValidation)
		}
		if d.Shared {
			return nil, fmt.Errorf("%w: only expenses can be shared", apperrors.ErrValidation)
		}
		kind := TransferInternal
		if d.TransferKind != nil {
			kind = *d.TransferKind
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: unknown transfer_kind %q", apperrors.ErrValidation, kind)
		}
		return TransferDetail{TransferKind: kind, FromAccountID: *d.FromAccountID, ToAccountID: *d.ToAccountID}, nil
	}
	return nil, fmt.Errorf("%w: type must be 'expense', 'income', or 'transfer'", apperrors.ErrValidation)
}

// NewEntry validates a draft and assembles an Entry. Identity and audit fields are left to the caller.
func NewEntry(householdID string, d EntryDraft) (Entry, error) {
	if d.Amount < 0 {
		return Entry{}, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if d.PayerMemberID == "" {
		return Entry{}, fmt.Errorf("%w: payer_member_id is required", apperrors.ErrValidation)
	}
	if d.OccurredAt.IsZero() {
		return Entry{}, fmt.Errorf("%w: occurred_at is required", apperrors.ErrValidation)
	}
	detail, err := d.BuildDetail()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		HouseholdID:   householdID,
		Amount:        d.Amount,
		OccurredAt:    d.OccurredAt,
		Date:          TruncateToDate(d.OccurredAt),
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
		Memo:          d.Memo,
		PayerMemberID: d.PayerMemberID,
		Detail:        detail,
	}, nil
}

// Draft flattens the entry back into an EntryDraft.
func (e Entry) Draft() EntryDraft {
	d := EntryDraft{
		Kind:          e.Kind(),
		Amount:        e.Amount,
		OccurredAt:    e.OccurredAt,
		CategoryID:    e.CategoryID,
		SubcategoryID: e.SubcategoryID,
		Memo:          e.Memo,
		PayerMemberID: e.PayerMemberID,
	}
	switch det := e.Detail.(type) {
	case IncomeDetail:
		d.AccountID = det.AccountID
	case ExpenseDetail:
		d.AccountID = det.AccountID
		d.Shared = det.Shared
	case TransferDetail:
		tk := det.TransferKind
		from, to := det.FromAccountID, det.ToAccountID
		d.TransferKind = &tk
		d.FromAccountID = &from
		d.ToAccountID = &to
	}
	return d
}

// TruncateToDate drops the clock part of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
