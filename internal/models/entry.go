package models

import "time"

// Entry is the flat row of the entries table. Kind-specific columns are nullable
// and CHECK constraints keep them consistent with kind.
type Entry struct {
	EntryID       string    `db:"entry_id"`
	HouseholdID   string    `db:"household_id"`
	Kind          string    `db:"kind"`
	TransferKind  *string   `db:"transfer_kind"`
	Amount        int64     `db:"amount"`
	EntryDate     time.Time `db:"entry_date"`
	OccurredAt    time.Time `db:"occurred_at"`
	CategoryID    *string   `db:"category_id"`
	SubcategoryID *string   `db:"subcategory_id"`
	Memo          *string   `db:"memo"`
	PayerMemberID string    `db:"payer_member_id"`
	Shared        bool      `db:"shared"`
	AccountID     *string   `db:"account_id"`
	FromAccountID *string   `db:"from_account_id"`
	ToAccountID   *string   `db:"to_account_id"`
	ImportHash    *string   `db:"import_hash"`
	AuditFields
}
