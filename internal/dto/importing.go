package dto

import "github.com/hihello1226/our-ledger/internal/core/domain"

// ConfirmImportRequest commits a previewed upload.
type ConfirmImportRequest struct {
	FileID             string               `json:"fileID" binding:"required"`
	ColumnMapping      domain.ColumnMapping `json:"columnMapping"`
	PayerMemberID      string               `json:"payerMemberID" binding:"required,uuid"`
	DefaultAccountID   *string              `json:"defaultAccountID" binding:"omitempty,uuid"`
	DefaultCategoryID  *string              `json:"defaultCategoryID" binding:"omitempty,uuid"`
	AutoCreateTaxonomy bool                 `json:"autoCreateTaxonomy"`
	SkipDuplicates     *bool                `json:"skipDuplicates"` // defaults to true
}

// ToImportRequest converts the request for the import pipeline.
func (r ConfirmImportRequest) ToImportRequest() domain.ImportRequest {
	skip := true
	if r.SkipDuplicates != nil {
		skip = *r.SkipDuplicates
	}
	return domain.ImportRequest{
		Key:     r.FileID,
		Mapping: r.ColumnMapping,
		Defaults: domain.ImportDefaults{
			PayerMemberID:      r.PayerMemberID,
			AccountID:          r.DefaultAccountID,
			CategoryID:         r.DefaultCategoryID,
			AutoCreateTaxonomy: r.AutoCreateTaxonomy,
		},
		SkipDuplicates: skip,
	}
}
