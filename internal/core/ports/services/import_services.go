package services

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// ImportSvc runs the spreadsheet reconciliation pipeline.
type ImportSvc interface {
	// PreviewImport parses the file, caches it under a fresh key and suggests a column mapping.
	PreviewImport(ctx context.Context, actor domain.Membership, content []byte, filename, encoding string) (*domain.ImportPreview, error)

	// ConfirmImport commits the cached rows. Stale keys produce a zero-effect result, not an error.
	ConfirmImport(ctx context.Context, actor domain.Membership, req domain.ImportRequest) (*domain.ImportResult, error)
}

// ExternalSourceSvc manages spreadsheet endpoints and syncs them with the ledger.
type ExternalSourceSvc interface {
	ListSources(ctx context.Context, actor domain.Membership) ([]domain.ExternalDataSource, error)
	CreateSource(ctx context.Context, actor domain.Membership, source domain.ExternalDataSource) (*domain.ExternalDataSource, error)
	DeleteSource(ctx context.Context, actor domain.Membership, sourceID string) error
	SyncImport(ctx context.Context, actor domain.Membership, sourceID, payerMemberID string) (*domain.SyncImportResult, error)
	SyncExport(ctx context.Context, actor domain.Membership, sourceID string) (*domain.SyncExportResult, error)
}
