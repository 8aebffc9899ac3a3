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

type PgxExternalSourceRepository struct {
	BaseRepository
}

func newPgxExternalSourceRepository(pool *pgxpool.Pool) portsrepo.ExternalSourceRepositoryFacade {
	return &PgxExternalSourceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExternalSourceRepositoryFacade = (*PgxExternalSourceRepository)(nil)

const sourceColumns = `source_id, household_id, created_by, type, sheet_id, sheet_name, account_id,
	column_mapping, sync_direction, last_synced_at, last_synced_row, created_at`

func scanSource(row rowScanner) (domain.ExternalDataSource, error) {
	var m models.ExternalDataSource
	err := row.Scan(
		&m.SourceID,
		&m.HouseholdID,
		&m.CreatedBy,
		&m.Type,
		&m.SheetID,
		&m.SheetName,
		&m.AccountID,
		&m.ColumnMapping,
		&m.SyncDirection,
		&m.LastSyncedAt,
		&m.LastSyncedRow,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.ExternalDataSource{}, err
	}
	return mapping.ToDomainExternalSource(m)
}

func (r *PgxExternalSourceRepository) ListSources(ctx context.Context, householdID string) ([]domain.ExternalDataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM external_data_sources WHERE household_id = $1 ORDER BY created_at`
	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query external sources: %w", err)
	}
	defer rows.Close()

	sources := []domain.ExternalDataSource{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan external source: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating external sources: %w", err)
	}
	return sources, nil
}

func (r *PgxExternalSourceRepository) FindSourceByID(ctx context.Context, householdID, sourceID string) (*domain.ExternalDataSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM external_data_sources WHERE household_id = $1 AND source_id = $2`
	s, err := scanSource(r.Pool.QueryRow(ctx, query, householdID, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find external source %s: %w", sourceID, err)
	}
	return &s, nil
}

// FindRef returns the ref of one sheet row.
func (r *PgxExternalSourceRepository) FindRef(ctx context.Context, sourceID, externalRowID string) (*domain.EntryExternalRef, error) {
	query := `
		SELECT ref_id, entry_id, source_id, external_row_id, external_hash
		FROM entry_external_refs
		WHERE source_id = $1 AND external_row_id = $2`
	var m models.EntryExternalRef
	err := r.Pool.QueryRow(ctx, query, sourceID, externalRowID).Scan(
		&m.RefID, &m.EntryID, &m.SourceID, &m.ExternalRowID, &m.ExternalHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ref of row %s: %w", externalRowID, err)
	}
	ref := mapping.ToDomainExternalRef(m)
	return &ref, nil
}

// ListUnexportedEntries returns household entries without a ref for the source,
// restricted to the source's account when it has one.
func (r *PgxExternalSourceRepository) ListUnexportedEntries(ctx context.Context, source domain.ExternalDataSource, limit int) ([]domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries e
		WHERE e.household_id = $1
			AND ($2::uuid IS NULL OR e.account_id = $2 OR e.from_account_id = $2 OR e.to_account_id = $2)
			AND NOT EXISTS (
				SELECT 1 FROM entry_external_refs x
				WHERE x.source_id = $3 AND x.entry_id = e.entry_id
			)
		ORDER BY e.entry_date ASC, e.created_at ASC
		LIMIT $4`
	rows, err := r.Pool.Query(ctx, query, source.HouseholdID, source.AccountID, source.SourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unexported entries: %w", err)
	}
	return collectEntries(rows)
}

func (r *PgxExternalSourceRepository) SaveSource(ctx context.Context, source domain.ExternalDataSource) error {
	m, err := mapping.ToModelExternalSource(source)
	if err != nil {
		return err
	}
	query := `INSERT INTO external_data_sources (` + sourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.Pool.Exec(ctx, query,
		m.SourceID,
		m.HouseholdID,
		m.CreatedBy,
		m.Type,
		m.SheetID,
		m.SheetName,
		m.AccountID,
		m.ColumnMapping,
		m.SyncDirection,
		m.LastSyncedAt,
		m.LastSyncedRow,
		m.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "external source")
	}
	return nil
}

// DeleteSource removes a source; its refs go with it.
func (r *PgxExternalSourceRepository) DeleteSource(ctx context.Context, householdID, sourceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM external_data_sources WHERE household_id = $1 AND source_id = $2`, householdID, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete external source %s: %w", sourceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveRefTx records a ref inside tx behind a savepoint. An existing ref for the same row is replaced.
func (r *PgxExternalSourceRepository) SaveRefTx(ctx context.Context, tx pgx.Tx, ref domain.EntryExternalRef) error {
	m := mapping.ToModelExternalRef(ref)
	query := `
		INSERT INTO entry_external_refs (ref_id, entry_id, source_id, external_row_id, external_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_id, external_row_id)
		DO UPDATE SET entry_id = EXCLUDED.entry_id, external_hash = EXCLUDED.external_hash`
	return withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		if _, err := sp.Exec(ctx, query, m.RefID, m.EntryID, m.SourceID, m.ExternalRowID, m.ExternalHash); err != nil {
			return mapWriteError(err, "external ref of row "+m.ExternalRowID)
		}
		return nil
	})
}

func (r *PgxExternalSourceRepository) UpdateSyncStateTx(ctx context.Context, tx pgx.Tx, sourceID string, lastSyncedRow int, syncedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE external_data_sources SET last_synced_row = $2, last_synced_at = $3 WHERE source_id = $1`,
		sourceID, lastSyncedRow, syncedAt)
	if err != nil {
		return fmt.Errorf("failed to update sync state of source %s: %w", sourceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
