package mapping

import (
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

// ToModelSettlement converts a domain MonthlySettlement to a model MonthlySettlement
func ToModelSettlement(d domain.MonthlySettlement) models.MonthlySettlement {
	return models.MonthlySettlement{
		SettlementID: d.SettlementID,
		HouseholdID:  d.HouseholdID,
		UserID:       d.UserID,
		Month:        d.Month.String(),
		Amount:       d.Amount,
		IsFinalized:  d.IsFinalized,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDomainSettlement converts a model MonthlySettlement to a domain MonthlySettlement
func ToDomainSettlement(m models.MonthlySettlement) domain.MonthlySettlement {
	return domain.MonthlySettlement{
		SettlementID: m.SettlementID,
		HouseholdID:  m.HouseholdID,
		UserID:       m.UserID,
		Month:        domain.Month(m.Month),
		Amount:       m.Amount,
		IsFinalized:  m.IsFinalized,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
