package domain

// EntrySummary totals a filtered entry set. Internal transfers never affect Net.
type EntrySummary struct {
	TotalIncome      int64 `json:"totalIncome"`
	TotalExpense     int64 `json:"totalExpense"`
	TotalTransferIn  int64 `json:"totalTransferIn"`
	TotalTransferOut int64 `json:"totalTransferOut"`
	Net              int64 `json:"net"`
}

// Add folds one entry into the totals.
func (s *EntrySummary) Add(e Entry) {
	switch d := e.Detail.(type) {
	case IncomeDetail:
		s.TotalIncome += e.Amount
	case ExpenseDetail:
		s.TotalExpense += e.Amount
	case TransferDetail:
		switch d.TransferKind {
		case TransferExternalIn:
			s.TotalTransferIn += e.Amount
		case TransferExternalOut:
			s.TotalTransferOut += e.Amount
		}
	}
	s.Net = s.TotalIncome + s.TotalTransferIn - s.TotalExpense - s.TotalTransferOut
}

// CategoryTotal is the expense total of one category within a month.
type CategoryTotal struct {
	CategoryID   *string `json:"categoryID,omitempty"`
	CategoryName string  `json:"categoryName"`
	Total        int64   `json:"total"`
}

// MemberTotal is one member's activity within a month.
type MemberTotal struct {
	MemberID      string `json:"memberID"`
	MemberName    string `json:"memberName"`
	TotalExpense  int64  `json:"totalExpense"`
	TotalIncome   int64  `json:"totalIncome"`
	SharedExpense int64  `json:"sharedExpense"`
}

// MonthlySummary is the per-month report shown to one acting user.
type MonthlySummary struct {
	Month              Month               `json:"month"`
	TotalIncome        int64               `json:"totalIncome"`
	TotalExpense       int64               `json:"totalExpense"`
	Balance            int64               `json:"balance"`
	ByCategory         []CategoryTotal     `json:"byCategory"`
	ByMember           []MemberTotal       `json:"byMember"`
	SettlementBalances []SettlementBalance `json:"settlementBalances"`
	NetBalance         int64               `json:"netBalance"`
}
