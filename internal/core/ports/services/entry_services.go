package services

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// EntryReaderSvc defines read operations for ledger entries.
type EntryReaderSvc interface {
	// QueryEntries returns one page of the filtered entries, the unpaginated total and summary,
	// and running balances when the filter names exactly one account.
	QueryEntries(ctx context.Context, actor domain.Membership, filter domain.EntryFilter) (*domain.EntryPage, error)

	// GetEntry retrieves one entry of the actor's household.
	GetEntry(ctx context.Context, actor domain.Membership, entryID string) (*domain.Entry, error)
}

// EntryWriterSvc defines write operations for ledger entries.
type EntryWriterSvc interface {
	CreateEntry(ctx context.Context, actor domain.Membership, draft domain.EntryDraft) (*domain.Entry, error)

	// UpdateEntry applies an explicit update command after validating it.
	UpdateEntry(ctx context.Context, actor domain.Membership, entryID string, cmd domain.EntryUpdateCommand) (*domain.Entry, error)

	DeleteEntry(ctx context.Context, actor domain.Membership, entryID string) error

	// BulkDeleteEntries hard-deletes the given entries and returns how many were removed.
	BulkDeleteEntries(ctx context.Context, actor domain.Membership, entryIDs []string) (int64, error)
}

// EntrySvcFacade combines all entry-related service interfaces.
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
