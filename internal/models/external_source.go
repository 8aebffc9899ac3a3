package models

import "time"

// ExternalDataSource is a row of external_data_sources. The column mapping is stored as JSONB.
type ExternalDataSource struct {
	SourceID      string     `db:"source_id"`
	HouseholdID   string     `db:"household_id"`
	CreatedBy     string     `db:"created_by"`
	Type          string     `db:"type"`
	SheetID       string     `db:"sheet_id"`
	SheetName     string     `db:"sheet_name"`
	AccountID     *string    `db:"account_id"`
	ColumnMapping []byte     `db:"column_mapping"`
	SyncDirection string     `db:"sync_direction"`
	LastSyncedAt  *time.Time `db:"last_synced_at"`
	LastSyncedRow *int       `db:"last_synced_row"`
	CreatedAt     time.Time  `db:"created_at"`
}

// EntryExternalRef is a row of entry_external_refs.
type EntryExternalRef struct {
	RefID         string `db:"ref_id"`
	EntryID       string `db:"entry_id"`
	SourceID      string `db:"source_id"`
	ExternalRowID string `db:"external_row_id"`
	ExternalHash  string `db:"external_hash"`
}
