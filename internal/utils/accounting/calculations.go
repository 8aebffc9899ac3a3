package accounting

import (
	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// SignedAmount returns the effect of an entry on the balance of accountID.
// Income and inbound transfer legs add, expense and outbound legs subtract.
// Entries that do not reference the account contribute zero.
func SignedAmount(entry domain.Entry, accountID string) int64 {
	switch d := entry.Detail.(type) {
	case domain.IncomeDetail:
		if d.AccountID != nil && *d.AccountID == accountID {
			return entry.Amount
		}
	case domain.ExpenseDetail:
		if d.AccountID != nil && *d.AccountID == accountID {
			return -entry.Amount
		}
	case domain.TransferDetail:
		switch accountID {
		case d.ToAccountID:
			return entry.Amount
		case d.FromAccountID:
			return -entry.Amount
		}
	}
	return 0
}

// ReplayBalances walks history forward from initial and records the running
// balance after every entry whose id is in wanted. history must already be in
// chronological order.
func ReplayBalances(initial int64, accountID string, history []domain.Entry, wanted map[string]struct{}) map[string]int64 {
	balances := make(map[string]int64, len(wanted))
	if len(wanted) == 0 {
		return balances
	}
	running := initial
	for _, e := range history {
		running += SignedAmount(e, accountID)
		if _, ok := wanted[e.EntryID]; ok {
			balances[e.EntryID] = running
		}
	}
	return balances
}

// CurrentBalance is the balance of an account after replaying its full history.
func CurrentBalance(initial int64, accountID string, history []domain.Entry) int64 {
	balance := initial
	for _, e := range history {
		balance += SignedAmount(e, accountID)
	}
	return balance
}
