package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/models"
)

// ToModelExternalSource converts a domain source, encoding its column mapping as JSON.
func ToModelExternalSource(d domain.ExternalDataSource) (models.ExternalDataSource, error) {
	mapping, err := json.Marshal(d.ColumnMapping)
	if err != nil {
		return models.ExternalDataSource{}, fmt.Errorf("encode column mapping: %w", err)
	}
	return models.ExternalDataSource{
		SourceID:      d.SourceID,
		HouseholdID:   d.HouseholdID,
		CreatedBy:     d.CreatedBy,
		Type:          string(d.Type),
		SheetID:       d.SheetID,
		SheetName:     d.SheetName,
		AccountID:     d.AccountID,
		ColumnMapping: mapping,
		SyncDirection: string(d.Direction),
		LastSyncedAt:  d.LastSyncedAt,
		LastSyncedRow: d.LastSyncedRow,
		CreatedAt:     d.CreatedAt,
	}, nil
}

// ToDomainExternalSource converts a source row. An empty mapping column means the default layout.
func ToDomainExternalSource(m models.ExternalDataSource) (domain.ExternalDataSource, error) {
	mapping := domain.DefaultSheetColumnMapping()
	if len(m.ColumnMapping) > 0 {
		if err := json.Unmarshal(m.ColumnMapping, &mapping); err != nil {
			return domain.ExternalDataSource{}, fmt.Errorf("decode column mapping of source %s: %w", m.SourceID, err)
		}
	}
	return domain.ExternalDataSource{
		SourceID:      m.SourceID,
		HouseholdID:   m.HouseholdID,
		CreatedBy:     m.CreatedBy,
		Type:          domain.SourceType(m.Type),
		SheetID:       m.SheetID,
		SheetName:     m.SheetName,
		AccountID:     m.AccountID,
		ColumnMapping: mapping,
		Direction:     domain.SyncDirection(m.SyncDirection),
		LastSyncedAt:  m.LastSyncedAt,
		LastSyncedRow: m.LastSyncedRow,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func ToModelExternalRef(d domain.EntryExternalRef) models.EntryExternalRef {
	return models.EntryExternalRef{
		RefID:         d.RefID,
		EntryID:       d.EntryID,
		SourceID:      d.SourceID,
		ExternalRowID: d.ExternalRowID,
		ExternalHash:  d.ExternalHash,
	}
}

func ToDomainExternalRef(m models.EntryExternalRef) domain.EntryExternalRef {
	return domain.EntryExternalRef{
		RefID:         m.RefID,
		EntryID:       m.EntryID,
		SourceID:      m.SourceID,
		ExternalRowID: m.ExternalRowID,
		ExternalHash:  m.ExternalHash,
	}
}
