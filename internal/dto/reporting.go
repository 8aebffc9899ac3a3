package dto

import "github.com/hihello1226/our-ledger/internal/core/domain"

// MonthQueryParams selects a month, optionally narrowing the net balance to some accounts.
type MonthQueryParams struct {
	Month      string `form:"month" binding:"required"`
	AccountIDs string `form:"account_ids"`
}

// AccountIDList returns the comma separated account ids.
func (p MonthQueryParams) AccountIDList() []string {
	return splitList(p.AccountIDs)
}

// SaveSettlementRecordRequest upserts the settlement figure of one user for one month.
type SaveSettlementRecordRequest struct {
	UserID string `json:"userID" binding:"required"`
	Month  string `json:"month" binding:"required"`
	Amount int64  `json:"amount"`
}

// FinalizeMonthRequest names the month to lock.
type FinalizeMonthRequest struct {
	Month string `json:"month" binding:"required"`
}

// FinalizeMonthResponse lists the records that are now final.
type FinalizeMonthResponse struct {
	Month   string                     `json:"month"`
	Records []domain.MonthlySettlement `json:"records"`
}

// ListCategoriesResponse holds the categories visible to a household, subcategories nested.
type ListCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// ListAccountsResponse holds the accounts the caller may see.
type ListAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}
