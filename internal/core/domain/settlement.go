package domain

import "time"

// MonthlySettlement is the persisted settlement figure of one user for one month.
// Positive amounts are receivable, negative amounts payable.
type MonthlySettlement struct {
	SettlementID string    `json:"settlementID"`
	HouseholdID  string    `json:"householdID"`
	UserID       string    `json:"userID"`
	Month        Month     `json:"month"`
	Amount       int64     `json:"amount"`
	IsFinalized  bool      `json:"isFinalized"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MemberBalance is how far a member's shared-expense payments are from an equal share.
type MemberBalance struct {
	MemberID string `json:"memberID"`
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Paid     int64  `json:"paid"`
	Balance  int64  `json:"balance"`
}

// SettlementEdge says that From pays To the given amount.
type SettlementEdge struct {
	FromMemberID string `json:"fromMemberID"`
	FromName     string `json:"fromName"`
	ToMemberID   string `json:"toMemberID"`
	ToName       string `json:"toName"`
	Amount       int64  `json:"amount"`
}

// SettlementPlan is the point-in-time netting result for one month.
type SettlementPlan struct {
	Month       Month            `json:"month"`
	TotalShared int64            `json:"totalShared"`
	PerPerson   int64            `json:"perPerson"`
	Balances    []MemberBalance  `json:"balances"`
	Edges       []SettlementEdge `json:"edges"`
}

// SettlementBalance is the running total of persisted settlements for one user.
type SettlementBalance struct {
	UserID     string `json:"userID"`
	Cumulative int64  `json:"cumulative"`
}

// SettlementReport bundles the netting plan with the cumulative ledger.
type SettlementReport struct {
	Plan       SettlementPlan      `json:"plan"`
	Cumulative []SettlementBalance `json:"cumulative"`
	Records    []MonthlySettlement `json:"records"`
}
