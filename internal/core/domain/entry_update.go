package domain

import (
	"fmt"
	"time"

	"github.com/hihello1226/our-ledger/internal/apperrors"
)

// EntryUpdateCommand enumerates the entry fields that may be changed after creation.
// Nil fields are left untouched; Clear* flags null out optional references.
type EntryUpdateCommand struct {
	Kind             *EntryKind    `validate:"omitempty,oneof=income expense transfer"`
	TransferKind     *TransferKind `validate:"omitempty,oneof=internal external_out external_in"`
	Amount           *int64        `validate:"omitempty,gte=0"`
	OccurredAt       *time.Time
	CategoryID       *string `validate:"omitempty,uuid"`
	ClearCategory    bool
	SubcategoryID    *string `validate:"omitempty,uuid"`
	ClearSubcategory bool
	Memo             *string `validate:"omitempty,max=500"`
	ClearMemo        bool
	PayerMemberID    *string `validate:"omitempty,uuid"`
	Shared           *bool
	AccountID        *string `validate:"omitempty,uuid"`
	ClearAccount     bool
	FromAccountID    *string `validate:"omitempty,uuid"`
	ToAccountID      *string `validate:"omitempty,uuid"`
}

// IsEmpty is true when the command would not change anything.
func (c EntryUpdateCommand) IsEmpty() bool {
	return c.Kind == nil && c.TransferKind == nil && c.Amount == nil && c.OccurredAt == nil &&
		c.CategoryID == nil && !c.ClearCategory && c.SubcategoryID == nil && !c.ClearSubcategory &&
		c.Memo == nil && !c.ClearMemo && c.PayerMemberID == nil && c.Shared == nil &&
		c.AccountID == nil && !c.ClearAccount && c.FromAccountID == nil && c.ToAccountID == nil
}

// Apply merges the command into e and re-validates the result as a whole.
func (c EntryUpdateCommand) Apply(e Entry) (Entry, error) {
	if c.CategoryID != nil && c.ClearCategory {
		return Entry{}, fmt.Errorf("%w: category_id and clear_category are mutually exclusive", apperrors.ErrValidation)
	}
	if c.AccountID != nil && c.ClearAccount {
		return Entry{}, fmt.Errorf("%w: account_id and clear_account are mutually exclusive", apperrors.ErrValidation)
	}

	d := e.Draft()
	if c.Kind != nil && *c.Kind != d.Kind {
		d.Kind = *c.Kind
		if d.Kind == EntryKindTransfer {
			d.AccountID = nil
		} else {
			d.TransferKind, d.FromAccountID, d.ToAccountID = nil, nil, nil
		}
		if d.Kind != EntryKindExpense {
			d.Shared = false
		}
	}
	if c.TransferKind != nil {
		tk := *c.TransferKind
		d.TransferKind = &tk
	}
	if c.Amount != nil {
		d.Amount = *c.Amount
	}
	if c.OccurredAt != nil {
		d.OccurredAt = *c.OccurredAt
	}
	switch {
	case c.ClearCategory:
		d.CategoryID, d.SubcategoryID = nil, nil
	case c.CategoryID != nil:
		d.CategoryID = c.CategoryID
	}
	switch {
	case c.ClearSubcategory:
		d.SubcategoryID = nil
	case c.SubcategoryID != nil:
		d.SubcategoryID = c.SubcategoryID
	}
	switch {
	case c.ClearMemo:
		d.Memo = nil
	case c.Memo != nil:
		d.Memo = c.Memo
	}
	if c.PayerMemberID != nil {
		d.PayerMemberID = *c.PayerMemberID
	}
	if c.Shared != nil {
		d.Shared = *c.Shared
	}
	switch {
	case c.ClearAccount:
		d.AccountID = nil
	case c.AccountID != nil:
		d.AccountID = c.AccountID
	}
	if c.FromAccountID != nil {
		d.FromAccountID = c.FromAccountID
	}
	if c.ToAccountID != nil {
		d.ToAccountID = c.ToAccountID
	}

	updated, err := NewEntry(e.HouseholdID, d)
	if err != nil {
		return Entry{}, err
	}
	updated.EntryID = e.EntryID
	if sameFingerprint(e, updated) {
		updated.ImportHash = e.ImportHash
	}
	updated.AuditFields = e.AuditFields
	return updated, nil
}

// sameFingerprint reports whether the fields behind an import hash are unchanged.
func sameFingerprint(a, b Entry) bool {
	memoA, memoB := "", ""
	if a.Memo != nil {
		memoA = *a.Memo
	}
	if b.Memo != nil {
		memoB = *b.Memo
	}
	return a.Date.Equal(b.Date) && a.Amount == b.Amount && memoA == memoB
}
