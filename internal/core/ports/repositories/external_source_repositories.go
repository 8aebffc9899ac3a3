package repositories

import (
	"context"
	"time"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExternalSourceReader defines read operations for external data sources and their row refs.
type ExternalSourceReader interface {
	ListSources(ctx context.Context, householdID string) ([]domain.ExternalDataSource, error)
	FindSourceByID(ctx context.Context, householdID, sourceID string) (*domain.ExternalDataSource, error)
	// FindRef returns the ref recorded for one sheet row, or ErrNotFound.
	FindRef(ctx context.Context, sourceID, externalRowID string) (*domain.EntryExternalRef, error)
	// ListUnexportedEntries returns entries without a ref for the source, oldest first.
	ListUnexportedEntries(ctx context.Context, source domain.ExternalDataSource, limit int) ([]domain.Entry, error)
}

// ExternalSourceWriter defines write operations for external data sources and their row refs.
type ExternalSourceWriter interface {
	SaveSource(ctx context.Context, source domain.ExternalDataSource) error
	DeleteSource(ctx context.Context, householdID, sourceID string) error
	SaveRefTx(ctx context.Context, tx pgx.Tx, ref domain.EntryExternalRef) error
	UpdateSyncStateTx(ctx context.Context, tx pgx.Tx, sourceID string, lastSyncedRow int, syncedAt time.Time) error
}

// ExternalSourceRepositoryFacade combines all external-source repository interfaces.
type ExternalSourceRepositoryFacade interface {
	ExternalSourceReader
	ExternalSourceWriter
}
