package ports

import (
	"context"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// UploadCache holds parsed uploads between the preview and confirm steps of an import.
// Implementations decide on expiry and capacity; a missing or expired key reports ok=false.
type UploadCache interface {
	Put(ctx context.Context, table domain.UploadedTable) error
	Get(ctx context.Context, key string) (domain.UploadedTable, bool, error)
	Delete(ctx context.Context, key string) error
}

// SheetGateway reads and writes rows of an external spreadsheet.
type SheetGateway interface {
	// ReadRows returns up to maxRows rows starting at startRow (1-based) and the last row number read.
	ReadRows(ctx context.Context, sheetID, sheetName string, startRow, maxRows int) ([][]string, int, error)
	// WriteRows writes rows starting at startRow and returns how many rows were written.
	WriteRows(ctx context.Context, sheetID, sheetName string, startRow int, rows [][]string) (int, error)
}

// EventPublisher announces completed ledger writes to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}
