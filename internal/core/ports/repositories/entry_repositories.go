package repositories

import (
	"context"
	"time"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// EntryReader defines read operations for ledger entries.
type EntryReader interface {
	// FindEntryByID retrieves one entry of a household.
	FindEntryByID(ctx context.Context, householdID, entryID string) (*domain.Entry, error)

	// QueryEntryPage returns the requested page of a normalized filter, the total match count
	// and the summary of every matching entry, all read from one consistent snapshot.
	QueryEntryPage(ctx context.Context, filter domain.EntryFilter) (*domain.EntryPage, error)

	// ListAccountHistory returns every entry touching the account as primary, from- or to-account,
	// ordered by occurred_at, date, created_at ascending.
	ListAccountHistory(ctx context.Context, householdID, accountID string) ([]domain.Entry, error)

	// ListEntriesBetween returns the entries whose date lies in [from, to).
	ListEntriesBetween(ctx context.Context, householdID string, from, to time.Time) ([]domain.Entry, error)

	// ListEntryFingerprints returns date, amount and memo of all entries of a household.
	ListEntryFingerprints(ctx context.Context, householdID string) ([]domain.EntryFingerprint, error)
}

// EntryWriter defines write operations for ledger entries.
type EntryWriter interface {
	SaveEntry(ctx context.Context, entry domain.Entry) error

	// SaveEntryTx inserts an entry inside tx behind a savepoint, so a failing row leaves tx usable.
	SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.Entry) error

	// UpdateEntry overwrites every mutable column of an existing entry.
	UpdateEntry(ctx context.Context, entry domain.Entry) error

	DeleteEntry(ctx context.Context, householdID, entryID string) error

	// DeleteEntries removes the listed entries of a household and returns how many were removed.
	DeleteEntries(ctx context.Context, householdID string, entryIDs []string) (int64, error)
}

// EntryRepositoryFacade combines all entry-related repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities.
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
