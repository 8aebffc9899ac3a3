package domain

import "time"

// SourceType names the kind of external endpoint.
type SourceType string

const SourceTypeGoogleSheet SourceType = "google_sheet"

// SyncDirection says which way rows flow.
type SyncDirection string

const (
	SyncImport SyncDirection = "import"
	SyncExport SyncDirection = "export"
	SyncBoth   SyncDirection = "both"
)

// AllowsImport reports whether rows may be pulled from the sheet.
func (d SyncDirection) AllowsImport() bool { return d == SyncImport || d == SyncBoth }

// AllowsExport reports whether entries may be pushed to the sheet.
func (d SyncDirection) AllowsExport() bool { return d == SyncExport || d == SyncBoth }

// SheetColumnMapping locates the entry fields by zero-based column index.
type SheetColumnMapping struct {
	Date     int `json:"date"`
	Amount   int `json:"amount"`
	Type     int `json:"type"`
	Category int `json:"category"`
	Memo     int `json:"memo"`
}

// DefaultSheetColumnMapping is date, amount, type, category, memo in columns A to E.
func DefaultSheetColumnMapping() SheetColumnMapping {
	return SheetColumnMapping{Date: 0, Amount: 1, Type: 2, Category: 3, Memo: 4}
}

// ExternalDataSource is a spreadsheet kept in sync with a household ledger.
type ExternalDataSource struct {
	SourceID      string             `json:"sourceID"`
	HouseholdID   string             `json:"householdID"`
	CreatedBy     string             `json:"createdBy"`
	Type          SourceType         `json:"type"`
	SheetID       string             `json:"sheetID"`
	SheetName     string             `json:"sheetName"`
	AccountID     *string            `json:"accountID,omitempty"`
	ColumnMapping SheetColumnMapping `json:"columnMapping"`
	Direction     SyncDirection      `json:"syncDirection"`
	LastSyncedAt  *time.Time         `json:"lastSyncedAt,omitempty"`
	LastSyncedRow *int               `json:"lastSyncedRow,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NextRow is the first sheet row not yet synced; row 1 holds headers.
func (s ExternalDataSource) NextRow() int {
	if s.LastSyncedRow == nil || *s.LastSyncedRow < 1 {
		return 2
	}
	return *s.LastSyncedRow + 1
}

// EntryExternalRef records which sheet row an entry came from or went to.
type EntryExternalRef struct {
	RefID         string `json:"refID"`
	EntryID       string `json:"entryID"`
	SourceID      string `json:"sourceID"`
	ExternalRowID string `json:"externalRowID"`
	ExternalHash  string `json:"externalHash"`
}

// SyncImportResult reports a sheet-to-ledger sync.
type SyncImportResult struct {
	ImportedCount int `json:"importedCount"`
	UpdatedCount  int `json:"updatedCount"`
	SkippedCount  int `json:"skippedCount"`
	LastSyncedRow int `json:"lastSyncedRow"`
}

// SyncExportResult reports a ledger-to-sheet sync.
type SyncExportResult struct {
	ExportedCount int `json:"exportedCount"`
	LastSyncedRow int `json:"lastSyncedRow"`
}
