package mapping

import (
	"fmt"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

// ToModelEntry flattens the entry sum type into the nullable columns of an entries row.
func ToModelEntry(d domain.Entry) models.Entry {
	m := models.Entry{
		EntryID:       d.EntryID,
		HouseholdID:   d.HouseholdID,
		Kind:          string(d.Kind()),
		Amount:        d.Amount,
		EntryDate:     d.Date,
		OccurredAt:    d.OccurredAt,
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
		Memo:          d.Memo,
		PayerMemberID: d.PayerMemberID,
		ImportHash:    d.ImportHash,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	switch det := d.Detail.(type) {
	case domain.IncomeDetail:
		m.AccountID = det.AccountID
	case domain.ExpenseDetail:
		m.AccountID = det.AccountID
		m.Shared = det.Shared
	case domain.TransferDetail:
		tk := string(det.TransferKind)
		from, to := det.FromAccountID, det.ToAccountID
		m.TransferKind = &tk
		m.FromAccountID = &from
		m.ToAccountID = &to
	}
	return m
}

// ToDomainEntry rebuilds the sum type from a row. A row whose columns contradict its
// kind is reported as an error instead of being silently coerced.
func ToDomainEntry(m models.Entry) (domain.Entry, error) {
	var detail domain.EntryDetail
	switch domain.EntryKind(m.Kind) {
	case domain.EntryKindIncome:
		detail = domain.IncomeDetail{AccountID: m.AccountID}
	case domain.EntryKindExpense:
		detail = domain.ExpenseDetail{AccountID: m.AccountID, Shared: m.Shared}
	case domain.EntryKindTransfer:
		if m.FromAccountID == nil || m.ToAccountID == nil {
			return domain.Entry{}, fmt.Errorf("entry %s: transfer row without both accounts", m.EntryID)
		}
		kind := domain.TransferInternal
		if m.TransferKind != nil {
			kind = domain.TransferKind(*m.TransferKind)
		}
		detail = domain.TransferDetail{TransferKind: kind, FromAccountID: *m.FromAccountID, ToAccountID: *m.ToAccountID}
	default:
		return domain.Entry{}, fmt.Errorf("entry %s: unknown kind %q", m.EntryID, m.Kind)
	}
	return domain.Entry{
		EntryID:       m.EntryID,
		HouseholdID:   m.HouseholdID,
		Amount:        m.Amount,
		OccurredAt:    m.OccurredAt,
		Date:          m.EntryDate,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		Memo:          m.Memo,
		PayerMemberID: m.PayerMemberID,
		Detail:        detail,
		ImportHash:    m.ImportHash,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}
