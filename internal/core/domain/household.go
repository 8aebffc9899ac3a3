package domain

// Household groups the members sharing one ledger.
type Household struct {
	HouseholdID string `json:"householdID"`
	Name        string `json:"name"`
}

// HouseholdMember links a user to a household. Entries name members, not users, as payers.
type HouseholdMember struct {
	MemberID    string `json:"memberID"`
	HouseholdID string `json:"householdID"`
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

// Membership is the acting user's resolved place in a household.
type Membership struct {
	Household Household
	Member    HouseholdMember
}
