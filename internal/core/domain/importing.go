package domain

import "time"

const (
	// MaxImportErrors caps the error messages returned by a confirmed import.
	MaxImportErrors = 20
	// PreviewRowLimit is how many parsed rows a preview shows.
	PreviewRowLimit = 10
)

// Messages returned instead of errors when a confirm references a stale handle.
const (
	MsgUploadNotFound = "File not found. Please upload again."
	MsgUploadMismatch = "Invalid file ID."
)

// ColumnMapping maps import roles to header names. Empty means unmapped.
type ColumnMapping struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Memo        string `json:"memo"`
	Account     string `json:"account"`
}

// ParsedTable is a decoded tabular file.
type ParsedTable struct {
	Headers []string
	Rows    []map[string]string
}

// UploadedTable is what the upload cache holds between preview and confirm.
type UploadedTable struct {
	Key         string
	HouseholdID string
	Filename    string
	Table       ParsedTable
	UploadedAt  time.Time
}

// ImportPreviewRow is one interpreted row shown before confirmation.
type ImportPreviewRow struct {
	RowNumber   int       `json:"rowNumber"`
	Date        string    `json:"date"`
	Amount      int64     `json:"amount"`
	Kind        EntryKind `json:"type"`
	Category    *string   `json:"category,omitempty"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Memo        *string   `json:"memo,omitempty"`
	Account     *string   `json:"account,omitempty"`
	IsDuplicate bool      `json:"isDuplicate"`
	Error       *string   `json:"error,omitempty"`
}

// ImportPreview is the result of the upload step.
type ImportPreview struct {
	Key              string             `json:"fileID"`
	TotalRows        int                `json:"totalRows"`
	PreviewRows      []ImportPreviewRow `json:"previewRows"`
	DetectedColumns  []string           `json:"detectedColumns"`
	SuggestedMapping ColumnMapping      `json:"suggestedMapping"`
}

// ImportDefaults fill in what a row does not carry.
type ImportDefaults struct {
	PayerMemberID      string
	AccountID          *string
	CategoryID         *string
	AutoCreateTaxonomy bool
}

// ImportRequest confirms a previously previewed upload.
type ImportRequest struct {
	Key            string
	Mapping        ColumnMapping
	Defaults       ImportDefaults
	SkipDuplicates bool
}

// ImportResult reports what a confirmed import did.
type ImportResult struct {
	ImportedCount        int      `json:"importedCount"`
	SkippedCount         int      `json:"skippedCount"`
	ErrorCount           int      `json:"errorCount"`
	Errors               []string `json:"errors"`
	CreatedCategories    int      `json:"createdCategories"`
	CreatedSubcategories int      `json:"createdSubcategories"`
	CreatedAccounts      int      `json:"createdAccounts"`
}

// StaleImportResult is the zero-effect result for an unusable upload handle.
func StaleImportResult(msg string) ImportResult {
	return ImportResult{Errors: []string{msg}}
}

// EntryFingerprint is the part of an entry that import deduplication hashes.
type EntryFingerprint struct {
	Date   time.Time
	Amount int64
	Memo   *string
}
