package models

// Account represents a money container owned by a user and optionally attached to a household.
type Account struct {
	AccountID       string  `db:"account_id"`
	OwnerUserID     string  `db:"owner_user_id"`
	HouseholdID     *string `db:"household_id"`
	Name            string  `db:"name"`
	BankName        *string `db:"bank_name"`
	Scope           string  `db:"scope"`
	AccountType     string  `db:"account_type"`
	InitialBalance  int64   `db:"initial_balance"`
	IsSharedVisible bool    `db:"is_shared_visible"`
	AuditFields
}
