package services

import (
	"sort"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// ComputeSettlementPlan nets the shared expenses of one month between members.
// per-person shares use floor division and the remainder stays unassigned.
// Fewer than two members yield an empty plan.
func ComputeSettlementPlan(month domain.Month, members []domain.HouseholdMember, entries []domain.Entry) domain.SettlementPlan {
	plan := domain.SettlementPlan{
		Month:    month,
		Balances: []domain.MemberBalance{},
		Edges:    []domain.SettlementEdge{},
	}
	if len(members) < 2 {
		return plan
	}

	paid := make(map[string]int64, len(members))
	for _, e := range entries {
		if !e.IsShared() {
			continue
		}
		plan.TotalShared += e.Amount
		paid[e.PayerMemberID] += e.Amount
	}
	plan.PerPerson = plan.TotalShared / int64(len(members))

	balances := make([]domain.MemberBalance, 0, len(members))
	for _, m := range members {
		balances = append(balances, domain.MemberBalance{
			MemberID: m.MemberID,
			UserID:   m.UserID,
			Name:     m.Name,
			Paid:     paid[m.MemberID],
			Balance:  paid[m.MemberID] - plan.PerPerson,
		})
	}
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Balance < balances[j].Balance
	})
	plan.Balances = balances

	// work on copies so the reported balances stay untouched
	remaining := make([]int64, len(balances))
	for i, b := range balances {
		remaining[i] = b.Balance
	}
	i, j := 0, len(balances)-1
	for i < j {
		if remaining[i] >= 0 {
			break
		}
		amount := min(-remaining[i], remaining[j])
		if amount > 0 {
			plan.Edges = append(plan.Edges, domain.SettlementEdge{
				FromMemberID: balances[i].MemberID,
				FromName:     balances[i].Name,
				ToMemberID:   balances[j].MemberID,
				ToName:       balances[j].Name,
				Amount:       amount,
			})
		}
		remaining[i] += amount
		remaining[j] -= amount
		if remaining[i] == 0 {
			i++
		}
		if remaining[j] == 0 {
			j--
		}
	}
	return plan
}

// CumulativeBalances sums persisted settlement amounts per user.
// Callers pass only the records up to the month of interest.
func CumulativeBalances(records []domain.MonthlySettlement) []domain.SettlementBalance {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.UserID] += r.Amount
	}
	out := make([]domain.SettlementBalance, 0, len(totals))
	for userID, total := range totals {
		out = append(out, domain.SettlementBalance{UserID: userID, Cumulative: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
