package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/hihello1226/our-ledger/internal/core/ports"
)

// lastColumn bounds reads and writes to the date, amount, type, category and memo columns.
const lastColumn = "E"

// GoogleGateway reads and writes household rows in Google Sheets using a service account.
type GoogleGateway struct {
	svc    *gsheet.Service
	logger *slog.Logger
}

var _ ports.SheetGateway = (*GoogleGateway)(nil)

// NewGoogleGateway builds a gateway from inline service account JSON, or from a file when the JSON is empty.
func NewGoogleGateway(ctx context.Context, credentialsJSON, credentialsFile string, logger *slog.Logger) (*GoogleGateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	raw := []byte(strings.TrimSpace(credentialsJSON))
	if len(raw) == 0 {
		if credentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		raw, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := gsheet.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	logger.InfoContext(ctx, "Google Sheets gateway ready", slog.String("project_id", creds.ProjectID))
	return &GoogleGateway{svc: svc, logger: logger.With(slog.String("component", "sheets"))}, nil
}

func (g *GoogleGateway) ReadRows(ctx context.Context, sheetID, sheetName string, startRow, maxRows int) ([][]string, int, error) {
	if startRow < 1 || maxRows < 1 {
		return nil, startRow - 1, nil
	}
	readRange := rowRange(sheetName, startRow, startRow+maxRows-1)
	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", readRange, err)
	}

	rows := valuesToRows(resp.Values)
	g.logger.DebugContext(ctx, "Read sheet rows", slog.String("range", readRange), slog.Int("rows", len(rows)))
	return rows, startRow + len(rows) - 1, nil
}

func (g *GoogleGateway) WriteRows(ctx context.Context, sheetID, sheetName string, startRow int, rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	writeRange := rowRange(sheetName, startRow, startRow+len(rows)-1)
	vr := &gsheet.ValueRange{Values: rowsToValues(rows)}

	resp, err := g.svc.Spreadsheets.Values.Update(sheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", writeRange, err)
	}

	g.logger.InfoContext(ctx, "Wrote sheet rows", slog.String("range", writeRange), slog.Int64("rows", resp.UpdatedRows))
	return int(resp.UpdatedRows), nil
}

func rowRange(sheetName string, from, to int) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheetName(sheetName), from, lastColumn, to)
}

// quoteSheetName wraps names that A1 notation would otherwise misread.
func quoteSheetName(name string) string {
	if name == "" {
		return name
	}
	if strings.ContainsAny(name, " !'-") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			row[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

func rowsToValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return values
}
