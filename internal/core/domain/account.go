package domain

// AccountScope tells whether an account belongs to one person or the household.
type AccountScope string

const (
	AccountScopePersonal AccountScope = "personal"
	AccountScopeShared   AccountScope = "shared"
)

// Account is a place money lives in (bank account, card, cash).
// InitialBalance is a snapshot; current balances are always derived by replaying entries.
type Account struct {
	AccountID       string       `json:"accountID"`
	OwnerUserID     string       `json:"ownerUserID"`
	HouseholdID     *string      `json:"householdID,omitempty"`
	Name            string       `json:"name"`
	BankName        *string      `json:"bankName,omitempty"`
	Scope           AccountScope `json:"scope"`
	AccountType     string       `json:"accountType"` // checking, savings, card, cash, ...
	InitialBalance  int64        `json:"initialBalance"`
	IsSharedVisible bool         `json:"isSharedVisible"`
	AuditFields
}

// VisibleTo reports whether userID may see the account and the entries that reference it.
func (a Account) VisibleTo(userID string) bool {
	return a.IsSharedVisible || a.OwnerUserID == userID
}
