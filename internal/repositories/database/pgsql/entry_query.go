package pgsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/utils/pagination"
)

const entryColumns = `entry_id, household_id, kind, transfer_kind, amount, entry_date, occurred_at,
	category_id, subcategory_id, memo, payer_member_id, shared, account_id, from_account_id,
	to_account_id, import_hash, created_at, created_by, last_updated_at, last_updated_by`

// entryQuery accumulates WHERE conditions and their positional arguments.
type entryQuery struct {
	conds []string
	args  []any
}

func (q *entryQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *entryQuery) where(format string, args ...any) {
	q.conds = append(q.conds, fmt.Sprintf(format, args...))
}

func (q *entryQuery) whereClause() string {
	return "WHERE " + strings.Join(q.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildEntryFilter translates a normalized filter into conditions over the entries table.
func buildEntryFilter(f domain.EntryFilter) *entryQuery {
	q := &entryQuery{}
	q.where("household_id = %s", q.arg(f.HouseholdID))

	if f.DateFrom != nil {
		q.where("entry_date >= %s", q.arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		q.where("entry_date <= %s", q.arg(*f.DateTo))
	}

	switch {
	case len(f.CategoryIDs) > 0 && f.IncludeUncategorized:
		q.where("(category_id = ANY(%s) OR category_id IS NULL)", q.arg(f.CategoryIDs))
	case len(f.CategoryIDs) > 0:
		q.where("category_id = ANY(%s)", q.arg(f.CategoryIDs))
	case f.IncludeUncategorized:
		q.where("category_id IS NULL")
	}

	if f.PayerMemberID != nil {
		q.where("payer_member_id = %s", q.arg(*f.PayerMemberID))
	}
	if f.Shared != nil {
		q.where("shared = %s", q.arg(*f.Shared))
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = string(k)
		}
		q.where("kind = ANY(%s)", q.arg(kinds))
	}
	if f.TransferKind != nil {
		q.where("transfer_kind = %s", q.arg(string(*f.TransferKind)))
	}
	if len(f.AccountIDs) > 0 {
		p := q.arg(f.AccountIDs)
		q.where("(account_id = ANY(%[1]s) OR from_account_id = ANY(%[1]s) OR to_account_id = ANY(%[1]s))", p)
	}
	if f.AmountMin != nil {
		q.where("amount >= %s", q.arg(*f.AmountMin))
	}
	if f.AmountMax != nil {
		q.where("amount <= %s", q.arg(*f.AmountMax))
	}
	if f.MemoSearch != nil {
		q.where(`memo ILIKE %s ESCAPE '\'`, q.arg("%"+likeEscaper.Replace(*f.MemoSearch)+"%"))
	}
	return q
}

// entryOrderBy orders by the requested key, then the legacy date, then creation order.
func entryOrderBy(f domain.EntryFilter) string {
	column := "occurred_at"
	if f.SortBy == domain.SortByAmount {
		column = "amount"
	}
	dir, nulls := "DESC", "NULLS FIRST"
	if f.SortDir == domain.SortAsc {
		dir, nulls = "ASC", "NULLS LAST"
	}
	return fmt.Sprintf("ORDER BY %[1]s %[2]s %[3]s, entry_date %[2]s, created_at %[2]s, entry_id %[2]s", column, dir, nulls)
}

// listEntriesSQL selects one page of the filtered entries.
func listEntriesSQL(f domain.EntryFilter) (string, []any) {
	q := buildEntryFilter(f)
	limit := q.arg(f.PageSize)
	offset := q.arg(pagination.Offset(f.Page, f.PageSize))
	sql := fmt.Sprintf("SELECT %s FROM entries %s %s LIMIT %s OFFSET %s",
		entryColumns, q.whereClause(), entryOrderBy(f), limit, offset)
	return sql, q.args
}

func countEntriesSQL(f domain.EntryFilter) (string, []any) {
	q := buildEntryFilter(f)
	return "SELECT COUNT(*) FROM entries " + q.whereClause(), q.args
}

// summarizeEntriesSQL totals the whole filtered set, ignoring paging.
func summarizeEntriesSQL(f domain.EntryFilter) (string, []any) {
	q := buildEntryFilter(f)
	sql := fmt.Sprintf(`SELECT
		COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
		COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0),
		COALESCE(SUM(amount) FILTER (WHERE kind = 'transfer' AND transfer_kind = 'external_in'), 0),
		COALESCE(SUM(amount) FILTER (WHERE kind = 'transfer' AND transfer_kind = 'external_out'), 0)
		FROM entries %s`, q.whereClause())
	return sql, q.args
}
