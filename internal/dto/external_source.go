package dto

import "github.com/hihello1226/our-ledger/internal/core/domain"

// CreateExternalSourceRequest registers a spreadsheet with the household.
type CreateExternalSourceRequest struct {
	Type          domain.SourceType          `json:"type" binding:"omitempty,oneof=google_sheet"`
	SheetID       string                     `json:"sheetID" binding:"required"`
	SheetName     string                     `json:"sheetName"`
	AccountID     *string                    `json:"accountID" binding:"omitempty,uuid"`
	ColumnMapping *domain.SheetColumnMapping `json:"columnMapping"`
	SyncDirection domain.SyncDirection       `json:"syncDirection" binding:"omitempty,oneof=import export both"`
}

// ToDomain converts the request; a missing column mapping means columns A to E.
func (r CreateExternalSourceRequest) ToDomain() domain.ExternalDataSource {
	mapping := domain.DefaultSheetColumnMapping()
	if r.ColumnMapping != nil {
		mapping = *r.ColumnMapping
	}
	return domain.ExternalDataSource{
		Type:          r.Type,
		SheetID:       r.SheetID,
		SheetName:     r.SheetName,
		AccountID:     r.AccountID,
		ColumnMapping: mapping,
		Direction:     r.SyncDirection,
	}
}

// ListExternalSourcesResponse holds the household's spreadsheets.
type ListExternalSourcesResponse struct {
	Sources []domain.ExternalDataSource `json:"sources"`
}

// SyncImportRequest names who pays for the rows pulled from the sheet.
type SyncImportRequest struct {
	PayerMemberID string `json:"payerMemberID" binding:"required,uuid"`
}
