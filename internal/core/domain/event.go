package domain

import "time"

// LedgerEventType names something that happened to a household ledger.
type LedgerEventType string

const (
	EventImportCommitted     LedgerEventType = "import.committed"
	EventSettlementFinalized LedgerEventType = "settlement.finalized"
	EventExternalSynced      LedgerEventType = "external.synced"
)

// LedgerEvent is published after a multi-row write completes.
type LedgerEvent struct {
	Type        LedgerEventType `json:"type"`
	HouseholdID string          `json:"householdID"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Attributes  map[string]any  `json:"attributes,omitempty"`
}
