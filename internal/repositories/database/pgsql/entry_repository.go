package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	"github.com/hihello1226/our-ledger/internal/models"
	"github.com/hihello1226/our-ledger/internal/utils/mapping"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for ledger entries.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.HouseholdID,
		&m.Kind,
		&m.TransferKind,
		&m.Amount,
		&m.EntryDate,
		&m.OccurredAt,
		&m.CategoryID,
		&m.SubcategoryID,
		&m.Memo,
		&m.PayerMemberID,
		&m.Shared,
		&m.AccountID,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.ImportHash,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	return mapping.ToDomainEntry(m)
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	defer rows.Close()
	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}

// FindEntryByID retrieves an entry of a household by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, householdID, entryID string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE household_id = $1 AND entry_id = $2`
	e, err := scanEntry(r.Pool.QueryRow(ctx, query, householdID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return &e, nil
}

// snapshotReadTx makes the count, the page and the summary of a listing see the same rows.
var snapshotReadTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// QueryEntryPage reads one page of a normalized filter, the total match count and the
// summary of the whole filtered set from a single snapshot.
func (r *PgxEntryRepository) QueryEntryPage(ctx context.Context, filter domain.EntryFilter) (*domain.EntryPage, error) {
	tx, err := r.Pool.BeginTx(ctx, snapshotReadTx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin entry listing: %w", err)
	}
	defer r.Rollback(ctx, tx)

	page := &domain.EntryPage{Page: filter.Page, PageSize: filter.PageSize}
	if page.Entries, page.TotalCount, err = listEntries(ctx, tx, filter); err != nil {
		return nil, err
	}
	if page.Summary, err = summarizeEntries(ctx, tx, filter); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to finish entry listing: %w", err)
	}
	return page, nil
}

func listEntries(ctx context.Context, tx pgx.Tx, filter domain.EntryFilter) ([]domain.Entry, int, error) {
	countQuery, countArgs := countEntriesSQL(filter)
	var total int
	if err := tx.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}
	if total == 0 {
		return []domain.Entry{}, 0, nil
	}

	query, args := listEntriesSQL(filter)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func summarizeEntries(ctx context.Context, tx pgx.Tx, filter domain.EntryFilter) (domain.EntrySummary, error) {
	query, args := summarizeEntriesSQL(filter)
	var s domain.EntrySummary
	err := tx.QueryRow(ctx, query, args...).Scan(
		&s.TotalIncome,
		&s.TotalExpense,
		&s.TotalTransferIn,
		&s.TotalTransferOut,
	)
	if err != nil {
		return domain.EntrySummary{}, fmt.Errorf("failed to summarize entries: %w", err)
	}
	s.Net = s.TotalIncome + s.TotalTransferIn - s.TotalExpense - s.TotalTransferOut
	return s, nil
}

// ListAccountHistory returns every entry touching the account in replay order.
func (r *PgxEntryRepository) ListAccountHistory(ctx context.Context, householdID, accountID string) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE household_id = $1
			AND (account_id = $2 OR from_account_id = $2 OR to_account_id = $2)
		ORDER BY occurred_at ASC, entry_date ASC, created_at ASC, entry_id ASC`
	rows, err := r.Pool.Query(ctx, query, householdID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history of account %s: %w", accountID, err)
	}
	return collectEntries(rows)
}

// ListEntriesBetween returns the entries dated in [from, to).
func (r *PgxEntryRepository) ListEntriesBetween(ctx context.Context, householdID string, from, to time.Time) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE household_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date ASC, created_at ASC`
	rows, err := r.Pool.Query(ctx, query, householdID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries between %s and %s: %w",
			from.Format(domain.DateLayout), to.Format(domain.DateLayout), err)
	}
	return collectEntries(rows)
}

// ListEntryFingerprints returns the dedup inputs of every entry of a household.
func (r *PgxEntryRepository) ListEntryFingerprints(ctx context.Context, householdID string) ([]domain.EntryFingerprint, error) {
	rows, err := r.Pool.Query(ctx, `SELECT entry_date, amount, memo FROM entries WHERE household_id = $1`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry fingerprints: %w", err)
	}
	defer rows.Close()

	fingerprints := []domain.EntryFingerprint{}
	for rows.Next() {
		var fp domain.EntryFingerprint
		if err := rows.Scan(&fp.Date, &fp.Amount, &fp.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan entry fingerprint: %w", err)
		}
		fingerprints = append(fingerprints, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry fingerprints: %w", err)
	}
	return fingerprints, nil
}

const insertEntrySQL = `
	INSERT INTO entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

func insertEntryArgs(m models.Entry) []any {
	return []any{
		m.EntryID,
		m.HouseholdID,
		m.Kind,
		m.TransferKind,
		m.Amount,
		m.EntryDate,
		m.OccurredAt,
		m.CategoryID,
		m.SubcategoryID,
		m.Memo,
		m.PayerMemberID,
		m.Shared,
		m.AccountID,
		m.FromAccountID,
		m.ToAccountID,
		m.ImportHash,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveEntry inserts a new entry.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	if _, err := r.Pool.Exec(ctx, insertEntrySQL, insertEntryArgs(mapping.ToModelEntry(entry))...); err != nil {
		return mapWriteError(err, "entry "+entry.EntryID)
	}
	return nil
}

// SaveEntryTx inserts an entry inside tx behind a savepoint.
func (r *PgxEntryRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.Entry) error {
	return withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		if _, err := sp.Exec(ctx, insertEntrySQL, insertEntryArgs(mapping.ToModelEntry(entry))...); err != nil {
			return mapWriteError(err, "entry "+entry.EntryID)
		}
		return nil
	})
}

// UpdateEntry overwrites every mutable column of an entry.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query := `
		UPDATE entries
		SET kind = $3, transfer_kind = $4, amount = $5, entry_date = $6, occurred_at = $7,
			category_id = $8, subcategory_id = $9, memo = $10, payer_member_id = $11, shared = $12,
			account_id = $13, from_account_id = $14, to_account_id = $15,
			last_updated_at = $16, last_updated_by = $17, import_hash = $18
		WHERE household_id = $1 AND entry_id = $2`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.HouseholdID,
		m.EntryID,
		m.Kind,
		m.TransferKind,
		m.Amount,
		m.EntryDate,
		m.OccurredAt,
		m.CategoryID,
		m.SubcategoryID,
		m.Memo,
		m.PayerMemberID,
		m.Shared,
		m.AccountID,
		m.FromAccountID,
		m.ToAccountID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ImportHash,
	)
	if err != nil {
		return mapWriteError(err, "entry "+m.EntryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEntry hard-deletes one entry of a household.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, householdID, entryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM entries WHERE household_id = $1 AND entry_id = $2`, householdID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEntries hard-deletes the listed entries; ids of other households are ignored.
func (r *PgxEntryRepository) DeleteEntries(ctx context.Context, householdID string, entryIDs []string) (int64, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM entries WHERE household_id = $1 AND entry_id = ANY($2)`, householdID, entryIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete entries: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
