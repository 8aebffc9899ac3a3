package models

import "time"

// MonthlySettlement is a row of monthly_settlements; Month is stored as YYYY-MM text.
type MonthlySettlement struct {
	SettlementID string    `db:"settlement_id"`
	HouseholdID  string    `db:"household_id"`
	UserID       string    `db:"user_id"`
	Month        string    `db:"month"`
	Amount       int64     `db:"amount"`
	IsFinalized  bool      `db:"is_finalized"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
