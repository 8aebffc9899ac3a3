package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/ports"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
)

// DefaultMaxImportBytes is the upload size limit when none is configured.
const DefaultMaxImportBytes = 10 << 20

type importService struct {
	BaseService
	entryRepo     portsrepo.EntryRepositoryWithTx
	accountRepo   portsrepo.AccountRepositoryFacade
	categoryRepo  portsrepo.CategoryRepositoryFacade
	householdRepo portsrepo.HouseholdReader
	cache         ports.UploadCache
	maxBytes      int64
	now           func() time.Time
}

// ImportServiceOption is a function that configures an importService
type ImportServiceOption func(*importService)

// WithImportMaxBytes overrides the upload size limit.
func WithImportMaxBytes(n int64) ImportServiceOption {
	return func(s *importService) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithImportClock overrides the clock used for audit fields.
func WithImportClock(now func() time.Time) ImportServiceOption {
	return func(s *importService) { s.now = now }
}

// WithImportEvents publishes import events through p.
func WithImportEvents(p ports.EventPublisher) ImportServiceOption {
	return func(s *importService) { s.Events = p }
}

// NewImportService creates the spreadsheet import pipeline.
func NewImportService(
	entryRepo portsrepo.EntryRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	householdRepo portsrepo.HouseholdReader,
	cache ports.UploadCache,
	opts ...ImportServiceOption,
) portssvc.ImportSvc {
	s := &importService{
		entryRepo:     entryRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		householdRepo: householdRepo,
		cache:         cache,
		maxBytes:      DefaultMaxImportBytes,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ImportSvc = (*importService)(nil)

func (s *importService) PreviewImport(ctx context.Context, actor domain.Membership, content []byte, filename, encoding string) (*domain.ImportPreview, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	if int64(len(content)) > s.maxBytes {
		return nil, fmt.Errorf("%w: File size exceeds %dMB limit", apperrors.ErrValidation, s.maxBytes>>20)
	}
	table, err := ParseImportFile(content, filename, encoding)
	if err != nil {
		return nil, err
	}
	mapping := DetectColumns(table.Headers)

	upload := domain.UploadedTable{
		Key:         uuid.NewString(),
		HouseholdID: actor.Household.HouseholdID,
		Filename:    filename,
		Table:       table,
		UploadedAt:  s.now(),
	}
	if err := s.cache.Put(ctx, upload); err != nil {
		s.LogError(ctx, err, "Failed to cache uploaded file", slog.String("filename", filename))
		return nil, err
	}

	existing, err := s.existingHashes(ctx, actor.Household.HouseholdID)
	if err != nil {
		return nil, err
	}

	preview := &domain.ImportPreview{
		Key:              upload.Key,
		TotalRows:        len(table.Rows),
		PreviewRows:      make([]domain.ImportPreviewRow, 0, min(len(table.Rows), domain.PreviewRowLimit)),
		DetectedColumns:  table.Headers,
		SuggestedMapping: mapping,
	}
	for i, raw := range table.Rows {
		if i >= domain.PreviewRowLimit {
			break
		}
		r := interpretRow(i+1, raw, mapping)
		pr := domain.ImportPreviewRow{
			RowNumber:   r.Number,
			Date:        r.RawDate,
			Kind:        r.Kind,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Memo:        r.Memo,
			Account:     r.Account,
		}
		if r.AmountOK {
			pr.Amount = r.Amount
		}
		switch {
		case !r.DateOK:
			msg := "Invalid date: " + r.RawDate
			pr.Error = &msg
		case !r.AmountOK:
			msg := "Invalid amount: " + r.RawAmount
			pr.Error = &msg
		default:
			pr.Date = r.Date.Format(domain.DateLayout)
			_, pr.IsDuplicate = existing[r.Hash()]
		}
		preview.PreviewRows = append(preview.PreviewRows, pr)
	}

	s.LogInfo(ctx, "Import file previewed",
		slog.String("file_id", upload.Key), slog.String("filename", filename), slog.Int("rows", len(table.Rows)))
	return preview, nil
}

func (s *importService) ConfirmImport(ctx context.Context, actor domain.Membership, req domain.ImportRequest) (*domain.ImportResult, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	householdID := actor.Household.HouseholdID

	upload, ok, err := s.cache.Get(ctx, req.Key)
	if err != nil {
		s.LogError(ctx, err, "Failed to read upload cache", slog.String("file_id", req.Key))
		return nil, err
	}
	if !ok {
		res := domain.StaleImportResult(domain.MsgUploadNotFound)
		return &res, nil
	}
	if upload.HouseholdID != householdID {
		s.LogInfo(ctx, "Import confirm for a foreign upload rejected", slog.String("file_id", req.Key))
		res := domain.StaleImportResult(domain.MsgUploadMismatch)
		return &res, nil
	}

	defaults, err := s.checkDefaults(ctx, actor, req.Defaults)
	if err != nil {
		return nil, err
	}
	mapping := req.Mapping
	if mapping.Date == "" || mapping.Amount == "" {
		return nil, fmt.Errorf("%w: column mapping must name the date and amount columns", apperrors.ErrValidation)
	}

	var existing map[string]struct{}
	if req.SkipDuplicates {
		if existing, err = s.existingHashes(ctx, householdID); err != nil {
			return nil, err
		}
	}
	categories, err := s.categoryRepo.ListCategoriesForHousehold(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load categories for import")
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByHousehold(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for import")
		return nil, err
	}

	now := s.now()
	resolver := newTaxonomyResolver(householdID, actor.Member.UserID, defaults.AutoCreateTaxonomy, now,
		categories, accounts, s.accountRepo, s.categoryRepo)
	result := &domain.ImportResult{Errors: []string{}}
	var allErrors []string

	err = portsrepo.RunInTx(ctx, s.entryRepo, func(tx pgx.Tx) error {
		for i, raw := range upload.Table.Rows {
			r := interpretRow(i+1, raw, mapping)
			if !r.DateOK {
				allErrors = append(allErrors, fmt.Sprintf("Row %d: Invalid date '%s'", r.Number, r.RawDate))
				continue
			}
			if !r.AmountOK {
				allErrors = append(allErrors, fmt.Sprintf("Row %d: Invalid amount '%s'", r.Number, r.RawAmount))
				continue
			}

			var hash *string
			if req.SkipDuplicates {
				h := r.Hash()
				if _, dup := existing[h]; dup {
					result.SkippedCount++
					continue
				}
				hash = &h
			}

			entry, err := s.buildImportedEntry(ctx, tx, resolver, actor, defaults, r, now)
			if err == nil {
				entry.ImportHash = hash
				err = s.entryRepo.SaveEntryTx(ctx, tx, entry)
			}
			if err != nil {
				if errors.Is(err, apperrors.ErrDuplicate) {
					result.SkippedCount++
					continue
				}
				if !errors.Is(err, apperrors.ErrValidation) {
					s.LogDebug(ctx, "Import row failed", slog.Int("row", r.Number), slog.String("error", err.Error()))
				}
				allErrors = append(allErrors, fmt.Sprintf("Row %d: %s", r.Number, apperrors.UserMessage(err)))
				continue
			}
			if hash != nil {
				existing[*hash] = struct{}{}
			}
			result.ImportedCount++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Import transaction failed", slog.String("file_id", req.Key))
		return nil, err
	}

	if err := s.cache.Delete(ctx, req.Key); err != nil {
		s.LogError(ctx, err, "Failed to discard cached upload", slog.String("file_id", req.Key))
	}

	result.ErrorCount = len(allErrors)
	if len(allErrors) > domain.MaxImportErrors {
		allErrors = allErrors[:domain.MaxImportErrors]
	}
	result.Errors = append(result.Errors, allErrors...)
	result.CreatedCategories = resolver.createdCategories
	result.CreatedSubcategories = resolver.createdSubcategories
	result.CreatedAccounts = resolver.createdAccounts

	s.LogInfo(ctx, "Import committed",
		slog.String("file_id", req.Key),
		slog.Int("imported", result.ImportedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("errors", result.ErrorCount))
	s.PublishEvent(ctx, domain.LedgerEvent{
		Type:        domain.EventImportCommitted,
		HouseholdID: householdID,
		OccurredAt:  now,
		Attributes: map[string]any{
			"file_id":  req.Key,
			"imported": result.ImportedCount,
			"skipped":  result.SkippedCount,
			"errors":   result.ErrorCount,
		},
	})
	return result, nil
}

func (s *importService) buildImportedEntry(
	ctx context.Context,
	tx pgx.Tx,
	resolver *taxonomyResolver,
	actor domain.Membership,
	defaults domain.ImportDefaults,
	r importRow,
	now time.Time,
) (domain.Entry, error) {
	if r.Kind == domain.EntryKindTransfer {
		return domain.Entry{}, fmt.Errorf("%w: transfer rows need both from and to accounts and cannot be imported", apperrors.ErrValidation)
	}

	category, categoryID, err := resolver.ResolveCategory(ctx, tx, r.Category, r.Kind, defaults.CategoryID)
	if err != nil {
		return domain.Entry{}, err
	}
	subcategoryID, err := resolver.ResolveSubcategory(ctx, tx, category, r.Subcategory)
	if err != nil {
		return domain.Entry{}, err
	}
	accountID, err := resolver.ResolveAccount(ctx, tx, r.Account, defaults.AccountID)
	if err != nil {
		return domain.Entry{}, err
	}

	entry, err := domain.NewEntry(actor.Household.HouseholdID, domain.EntryDraft{
		Kind:          r.Kind,
		Amount:        r.Amount,
		OccurredAt:    r.Date,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Memo:          r.Memo,
		PayerMemberID: defaults.PayerMemberID,
		AccountID:     accountID,
	})
	if err != nil {
		return domain.Entry{}, err
	}
	entry.EntryID = uuid.NewString()
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.Member.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.Member.UserID,
	}
	return entry, nil
}

// checkDefaults validates the caller-supplied import defaults.
func (s *importService) checkDefaults(ctx context.Context, actor domain.Membership, d domain.ImportDefaults) (domain.ImportDefaults, error) {
	householdID := actor.Household.HouseholdID
	if d.PayerMemberID == "" {
		d.PayerMemberID = actor.Member.MemberID
	} else if d.PayerMemberID != actor.Member.MemberID {
		members, err := s.householdRepo.ListMembers(ctx, householdID)
		if err != nil {
			return d, err
		}
		if !hasMember(members, d.PayerMemberID) {
			return d, fmt.Errorf("%w: Invalid payer_member_id", apperrors.ErrValidation)
		}
	}
	if d.AccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *d.AccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return d, err
		}
		if err != nil || (account.HouseholdID != nil && *account.HouseholdID != householdID) {
			return d, fmt.Errorf("%w: Invalid account_id", apperrors.ErrValidation)
		}
	}
	if d.CategoryID != nil {
		category, err := s.categoryRepo.FindCategoryByID(ctx, *d.CategoryID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return d, err
		}
		if err != nil || (!category.IsDefault() && *category.HouseholdID != householdID) {
			return d, fmt.Errorf("%w: Invalid category_id", apperrors.ErrValidation)
		}
	}
	return d, nil
}

func (s *importService) existingHashes(ctx context.Context, householdID string) (map[string]struct{}, error) {
	fingerprints, err := s.entryRepo.ListEntryFingerprints(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entry fingerprints")
		return nil, err
	}
	hashes := make(map[string]struct{}, len(fingerprints))
	for _, fp := range fingerprints {
		hashes[ImportHash(fp.Date, fp.Amount, fp.Memo)] = struct{}{}
	}
	return hashes, nil
}
