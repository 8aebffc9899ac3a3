package mapping

import (
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		OwnerUserID:     d.OwnerUserID,
		HouseholdID:     d.HouseholdID,
		Name:            d.Name,
		BankName:        d.BankName,
		Scope:           string(d.Scope),
		AccountType:     d.AccountType,
		InitialBalance:  d.InitialBalance,
		IsSharedVisible: d.IsSharedVisible,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		OwnerUserID:     m.OwnerUserID,
		HouseholdID:     m.HouseholdID,
		Name:            m.Name,
		BankName:        m.BankName,
		Scope:           domain.AccountScope(m.Scope),
		AccountType:     m.AccountType,
		InitialBalance:  m.InitialBalance,
		IsSharedVisible: m.IsSharedVisible,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
