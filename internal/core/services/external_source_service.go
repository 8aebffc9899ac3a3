package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/ports"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
)

// MaxSyncRows caps how many rows one sync reads or writes.
const MaxSyncRows = 1000

const defaultSheetName = "Sheet1"

var errSheetsDisabled = apperrors.NewAppError(http.StatusServiceUnavailable, "google sheets integration is not configured", nil)

type externalSourceService struct {
	BaseService
	sourceRepo    portsrepo.ExternalSourceRepositoryFacade
	entryRepo     portsrepo.EntryRepositoryWithTx
	accountRepo   portsrepo.AccountReader
	categoryRepo  portsrepo.CategoryReader
	householdRepo portsrepo.HouseholdReader
	sheets        ports.SheetGateway
	now           func() time.Time
}

// ExternalSourceServiceOption is a function that configures an externalSourceService
type ExternalSourceServiceOption func(*externalSourceService)

// WithSheetGateway enables syncing through g.
func WithSheetGateway(g ports.SheetGateway) ExternalSourceServiceOption {
	return func(s *externalSourceService) { s.sheets = g }
}

// WithExternalSourceEvents publishes sync events through p.
func WithExternalSourceEvents(p ports.EventPublisher) ExternalSourceServiceOption {
	return func(s *externalSourceService) { s.Events = p }
}

// WithExternalSourceClock overrides the clock used for sync timestamps.
func WithExternalSourceClock(now func() time.Time) ExternalSourceServiceOption {
	return func(s *externalSourceService) { s.now = now }
}

// NewExternalSourceService creates the spreadsheet sync service.
func NewExternalSourceService(
	sourceRepo portsrepo.ExternalSourceRepositoryFacade,
	entryRepo portsrepo.EntryRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	householdRepo portsrepo.HouseholdReader,
	opts ...ExternalSourceServiceOption,
) portssvc.ExternalSourceSvc {
	s := &externalSourceService{
		sourceRepo:    sourceRepo,
		entryRepo:     entryRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		householdRepo: householdRepo,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExternalSourceSvc = (*externalSourceService)(nil)

func (s *externalSourceService) ListSources(ctx context.Context, actor domain.Membership) ([]domain.ExternalDataSource, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	sources, err := s.sourceRepo.ListSources(ctx, actor.Household.HouseholdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list external sources")
		return nil, err
	}
	return sources, nil
}

func (s *externalSourceService) CreateSource(ctx context.Context, actor domain.Membership, source domain.ExternalDataSource) (*domain.ExternalDataSource, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	source.SheetID = strings.TrimSpace(source.SheetID)
	if source.SheetID == "" {
		return nil, fmt.Errorf("%w: sheet_id is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(source.SheetName) == "" {
		source.SheetName = defaultSheetName
	}
	if source.Type == "" {
		source.Type = domain.SourceTypeGoogleSheet
	}
	if source.Type != domain.SourceTypeGoogleSheet {
		return nil, fmt.Errorf("%w: type must be 'google_sheet'", apperrors.ErrValidation)
	}
	if source.Direction == "" {
		source.Direction = domain.SyncBoth
	}
	if !source.Direction.AllowsImport() && !source.Direction.AllowsExport() {
		return nil, fmt.Errorf("%w: sync_direction must be 'import', 'export', or 'both'", apperrors.ErrValidation)
	}
	if source.AccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *source.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: Invalid account_id", apperrors.ErrValidation)
			}
			return nil, err
		}
		if account.HouseholdID != nil && *account.HouseholdID != actor.Household.HouseholdID {
			return nil, fmt.Errorf("%w: Invalid account_id", apperrors.ErrValidation)
		}
	}

	source.SourceID = uuid.NewString()
	source.HouseholdID = actor.Household.HouseholdID
	source.CreatedBy = actor.Member.UserID
	source.CreatedAt = s.now()
	source.LastSyncedAt = nil
	source.LastSyncedRow = nil

	if err := s.sourceRepo.SaveSource(ctx, source); err != nil {
		s.LogError(ctx, err, "Failed to save external source")
		return nil, err
	}
	s.LogInfo(ctx, "External source created", slog.String("source_id", source.SourceID))
	return &source, nil
}

func (s *externalSourceService) DeleteSource(ctx context.Context, actor domain.Membership, sourceID string) error {
	if err := requireHousehold(actor); err != nil {
		return err
	}
	if err := s.sourceRepo.DeleteSource(ctx, actor.Household.HouseholdID, sourceID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete external source", slog.String("source_id", sourceID))
		}
		return err
	}
	return nil
}

func (s *externalSourceService) SyncImport(ctx context.Context, actor domain.Membership, sourceID, payerMemberID string) (*domain.SyncImportResult, error) {
	source, err := s.loadSource(ctx, actor, sourceID)
	if err != nil {
		return nil, err
	}
	if !source.Direction.AllowsImport() {
		return nil, fmt.Errorf("%w: source does not allow import", apperrors.ErrValidation)
	}
	payer, err := s.resolvePayer(ctx, actor, payerMemberID)
	if err != nil {
		return nil, err
	}

	start := source.NextRow()
	rows, _, err := s.sheets.ReadRows(ctx, source.SheetID, source.SheetName, start, MaxSyncRows)
	if err != nil {
		s.LogError(ctx, err, "Failed to read sheet rows", slog.String("source_id", sourceID))
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategoriesForHousehold(ctx, actor.Household.HouseholdID)
	if err != nil {
		return nil, err
	}
	matcher := newTaxonomyResolver(actor.Household.HouseholdID, actor.Member.UserID, false, s.now(), categories, nil, nil, nil)

	now := s.now()
	result := &domain.SyncImportResult{LastSyncedRow: start - 1}
	err = portsrepo.RunInTx(ctx, s.entryRepo, func(tx pgx.Tx) error {
		for i, row := range rows {
			rowNumber := start + i
			externalID := strconv.Itoa(rowNumber)

			if _, err := s.sourceRepo.FindRef(ctx, source.SourceID, externalID); err == nil {
				result.SkippedCount++
				continue
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			entry, ok := sheetRowEntry(row, source, matcher, actor, payer, now)
			if !ok {
				result.SkippedCount++
				continue
			}
			if err := s.entryRepo.SaveEntryTx(ctx, tx, entry); err != nil {
				s.LogDebug(ctx, "Sheet row rejected", slog.Int("row", rowNumber), slog.String("error", err.Error()))
				result.SkippedCount++
				continue
			}
			ref := domain.EntryExternalRef{
				RefID:         uuid.NewString(),
				EntryID:       entry.EntryID,
				SourceID:      source.SourceID,
				ExternalRowID: externalID,
				ExternalHash:  rowHash(row),
			}
			if err := s.sourceRepo.SaveRefTx(ctx, tx, ref); err != nil {
				return err
			}
			result.ImportedCount++
		}
		if len(rows) == 0 {
			return nil
		}
		result.LastSyncedRow = start + len(rows) - 1
		return s.sourceRepo.UpdateSyncStateTx(ctx, tx, source.SourceID, result.LastSyncedRow, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Sheet import sync failed", slog.String("source_id", sourceID))
		return nil, err
	}

	s.LogInfo(ctx, "Sheet import sync completed",
		slog.String("source_id", sourceID),
		slog.Int("imported", result.ImportedCount),
		slog.Int("skipped", result.SkippedCount))
	s.publishSynced(ctx, source, "import", result.ImportedCount, now)
	return result, nil
}

func (s *externalSourceService) SyncExport(ctx context.Context, actor domain.Membership, sourceID string) (*domain.SyncExportResult, error) {
	source, err := s.loadSource(ctx, actor, sourceID)
	if err != nil {
		return nil, err
	}
	if !source.Direction.AllowsExport() {
		return nil, fmt.Errorf("%w: source does not allow export", apperrors.ErrValidation)
	}

	entries, err := s.sourceRepo.ListUnexportedEntries(ctx, *source, MaxSyncRows)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries to export", slog.String("source_id", sourceID))
		return nil, err
	}
	start := source.NextRow()
	result := &domain.SyncExportResult{LastSyncedRow: start - 1}
	if len(entries) == 0 {
		return result, nil
	}

	categories, err := s.categoryRepo.ListCategoriesForHousehold(ctx, actor.Household.HouseholdID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, exportRow(e, names))
	}
	if _, err := s.sheets.WriteRows(ctx, source.SheetID, source.SheetName, start, rows); err != nil {
		s.LogError(ctx, err, "Failed to write sheet rows", slog.String("source_id", sourceID))
		return nil, err
	}

	now := s.now()
	err = portsrepo.RunInTx(ctx, s.entryRepo, func(tx pgx.Tx) error {
		for i, e := range entries {
			ref := domain.EntryExternalRef{
				RefID:         uuid.NewString(),
				EntryID:       e.EntryID,
				SourceID:      source.SourceID,
				ExternalRowID: strconv.Itoa(start + i),
				ExternalHash:  rowHash(rows[i]),
			}
			if err := s.sourceRepo.SaveRefTx(ctx, tx, ref); err != nil {
				return err
			}
		}
		return s.sourceRepo.UpdateSyncStateTx(ctx, tx, source.SourceID, start+len(rows)-1, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record exported rows", slog.String("source_id", sourceID))
		return nil, err
	}

	result.ExportedCount = len(rows)
	result.LastSyncedRow = start + len(rows) - 1
	s.LogInfo(ctx, "Sheet export sync completed", slog.String("source_id", sourceID), slog.Int("exported", result.ExportedCount))
	s.publishSynced(ctx, source, "export", result.ExportedCount, now)
	return result, nil
}

func (s *externalSourceService) loadSource(ctx context.Context, actor domain.Membership, sourceID string) (*domain.ExternalDataSource, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	if s.sheets == nil {
		return nil, errSheetsDisabled
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, actor.Household.HouseholdID, sourceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load external source", slog.String("source_id", sourceID))
		}
		return nil, err
	}
	return source, nil
}

func (s *externalSourceService) resolvePayer(ctx context.Context, actor domain.Membership, payerMemberID string) (string, error) {
	if payerMemberID == "" || payerMemberID == actor.Member.MemberID {
		return actor.Member.MemberID, nil
	}
	members, err := s.householdRepo.ListMembers(ctx, actor.Household.HouseholdID)
	if err != nil {
		return "", err
	}
	if !hasMember(members, payerMemberID) {
		return "", fmt.Errorf("%w: Invalid payer_member_id", apperrors.ErrValidation)
	}
	return payerMemberID, nil
}

func (s *externalSourceService) publishSynced(ctx context.Context, source *domain.ExternalDataSource, direction string, count int, at time.Time) {
	s.PublishEvent(ctx, domain.LedgerEvent{
		Type:        domain.EventExternalSynced,
		HouseholdID: source.HouseholdID,
		OccurredAt:  at,
		Attributes: map[string]any{
			"source_id": source.SourceID,
			"direction": direction,
			"rows":      count,
		},
	})
}

// sheetRowEntry interprets one sheet row through the source's column mapping.
// Rows that cannot become a valid income or expense report ok=false.
func sheetRowEntry(row []string, source *domain.ExternalDataSource, matcher *taxonomyResolver, actor domain.Membership, payer string, now time.Time) (domain.Entry, bool) {
	m := source.ColumnMapping
	date, ok := ParseImportDate(column(row, m.Date))
	if !ok {
		return domain.Entry{}, false
	}
	amount, ok := ParseImportAmount(column(row, m.Amount))
	if !ok {
		return domain.Entry{}, false
	}
	if amount < 0 {
		amount = -amount
	}
	kind := domain.EntryKindExpense
	if t := column(row, m.Type); t != "" {
		kind = InferEntryKind(t)
	}
	if kind == domain.EntryKindTransfer {
		return domain.Entry{}, false
	}

	var categoryID *string
	if name := column(row, m.Category); name != "" {
		if c := matcher.MatchCategory(name, kind); c != nil {
			id := c.CategoryID
			categoryID = &id
		}
	}
	var memo *string
	if v := column(row, m.Memo); v != "" {
		memo = &v
	}

	entry, err := domain.NewEntry(actor.Household.HouseholdID, domain.EntryDraft{
		Kind:          kind,
		Amount:        amount,
		OccurredAt:    date,
		CategoryID:    categoryID,
		Memo:          memo,
		PayerMemberID: payer,
		AccountID:     source.AccountID,
	})
	if err != nil {
		return domain.Entry{}, false
	}
	entry.EntryID = uuid.NewString()
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.Member.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.Member.UserID,
	}
	return entry, true
}

func exportRow(e domain.Entry, categoryNames map[string]string) []string {
	category, memo := "", ""
	if e.CategoryID != nil {
		category = categoryNames[*e.CategoryID]
	}
	if e.Memo != nil {
		memo = *e.Memo
	}
	return []string{
		e.Date.Format(domain.DateLayout),
		strconv.FormatInt(e.Amount, 10),
		string(e.Kind()),
		category,
		memo,
	}
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowHash(row []string) string {
	sum := md5.Sum([]byte(strings.Join(row, "|")))
	return hex.EncodeToString(sum[:])
}
