package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/utils/accounting"
)

// entryService provides entry querying, running balances and entry maintenance.
type entryService struct {
	BaseService
	entryRepo     portsrepo.EntryRepositoryFacade
	accountRepo   portsrepo.AccountReader
	categoryRepo  portsrepo.CategoryReader
	householdRepo portsrepo.HouseholdReader
	validate      *validator.Validate
	now           func() time.Time
}

// EntryServiceOption is a function that configures an entryService
type EntryServiceOption func(*entryService)

// WithEntryClock overrides the clock used for date presets and audit fields.
func WithEntryClock(now func() time.Time) EntryServiceOption {
	return func(s *entryService) { s.now = now }
}

// NewEntryService creates a new entry service.
func NewEntryService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	householdRepo portsrepo.HouseholdReader,
	opts ...EntryServiceOption,
) portssvc.EntrySvcFacade {
	s := &entryService{
		entryRepo:     entryRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		householdRepo: householdRepo,
		validate:      validator.New(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

func (s *entryService) QueryEntries(ctx context.Context, actor domain.Membership, filter domain.EntryFilter) (*domain.EntryPage, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	filter.HouseholdID = actor.Household.HouseholdID
	f, err := filter.Normalize(s.now())
	if err != nil {
		return nil, err
	}

	page, err := s.entryRepo.QueryEntryPage(ctx, f)
	if err != nil {
		s.LogError(ctx, err, "Failed to query entries", slog.String("household_id", f.HouseholdID))
		return nil, err
	}
	page.Page, page.PageSize = f.Page, f.PageSize
	page.Balances = map[string]int64{}
	if page.Entries == nil {
		page.Entries = []domain.Entry{}
	}

	if accountID, ok := f.SingleAccount(); ok && len(page.Entries) > 0 {
		balances, err := s.runningBalances(ctx, f.HouseholdID, accountID, page.Entries)
		if err != nil {
			return nil, err
		}
		page.Balances = balances
	}
	return page, nil
}

// runningBalances replays the full history of accountID and keeps the balances of the page entries.
func (s *entryService) runningBalances(ctx context.Context, householdID, accountID string, entries []domain.Entry) (map[string]int64, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return map[string]int64{}, nil
		}
		s.LogError(ctx, err, "Failed to load account for balances", slog.String("account_id", accountID))
		return nil, err
	}
	history, err := s.entryRepo.ListAccountHistory(ctx, householdID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account history", slog.String("account_id", accountID))
		return nil, err
	}
	wanted := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		wanted[e.EntryID] = struct{}{}
	}
	return accounting.ReplayBalances(account.InitialBalance, accountID, history, wanted), nil
}

func (s *entryService) GetEntry(ctx context.Context, actor domain.Membership, entryID string) (*domain.Entry, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.FindEntryByID(ctx, actor.Household.HouseholdID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *entryService) CreateEntry(ctx context.Context, actor domain.Membership, draft domain.EntryDraft) (*domain.Entry, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	if draft.PayerMemberID == "" {
		draft.PayerMemberID = actor.Member.MemberID
	}
	entry, err := domain.NewEntry(actor.Household.HouseholdID, draft)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, actor, entry); err != nil {
		return nil, err
	}

	now := s.now()
	entry.EntryID = uuid.NewString()
	entry.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.Member.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.Member.UserID,
	}
	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save entry")
		return nil, err
	}
	s.LogInfo(ctx, "Entry created", slog.String("entry_id", entry.EntryID), slog.String("kind", string(entry.Kind())))
	return &entry, nil
}

func (s *entryService) UpdateEntry(ctx context.Context, actor domain.Membership, entryID string, cmd domain.EntryUpdateCommand) (*domain.Entry, error) {
	if err := requireHousehold(actor); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if cmd.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}

	existing, err := s.GetEntry(ctx, actor, entryID)
	if err != nil {
		return nil, err
	}
	updated, err := cmd.Apply(*existing)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, actor, updated); err != nil {
		return nil, err
	}
	updated.LastUpdatedAt = s.now()
	updated.LastUpdatedBy = actor.Member.UserID

	if err := s.entryRepo.UpdateEntry(ctx, updated); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Entry updated", slog.String("entry_id", entryID))
	return &updated, nil
}

func (s *entryService) DeleteEntry(ctx context.Context, actor domain.Membership, entryID string) error {
	if err := requireHousehold(actor); err != nil {
		return err
	}
	if err := s.entryRepo.DeleteEntry(ctx, actor.Household.HouseholdID, entryID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		}
		return err
	}
	s.LogInfo(ctx, "Entry deleted", slog.String("entry_id", entryID))
	return nil
}

func (s *entryService) BulkDeleteEntries(ctx context.Context, actor domain.Membership, entryIDs []string) (int64, error) {
	if err := requireHousehold(actor); err != nil {
		return 0, err
	}
	if len(entryIDs) == 0 {
		return 0, fmt.Errorf("%w: entry_ids must not be empty", apperrors.ErrValidation)
	}
	deleted, err := s.entryRepo.DeleteEntries(ctx, actor.Household.HouseholdID, entryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to bulk delete entries", slog.Int("requested", len(entryIDs)))
		return 0, err
	}
	s.LogInfo(ctx, "Entries deleted", slog.Int64("deleted", deleted), slog.Int("requested", len(entryIDs)))
	return deleted, nil
}

// checkReferences makes sure the payer, accounts and taxonomy of an entry exist and belong to the household.
func (s *entryService) checkReferences(ctx context.Context, actor domain.Membership, entry domain.Entry) error {
	householdID := actor.Household.HouseholdID

	if entry.PayerMemberID != actor.Member.MemberID {
		members, err := s.householdRepo.ListMembers(ctx, householdID)
		if err != nil {
			return err
		}
		if !hasMember(members, entry.PayerMemberID) {
			return fmt.Errorf("%w: payer is not a member of this household", apperrors.ErrValidation)
		}
	}

	var accountIDs []string
	if id := entry.AccountID(); id != nil {
		accountIDs = append(accountIDs, *id)
	}
	if t, ok := entry.Transfer(); ok {
		accountIDs = append(accountIDs, t.FromAccountID, t.ToAccountID)
	}
	for _, id := range accountIDs {
		account, err := s.accountRepo.FindAccountByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			return err
		}
		if account.HouseholdID != nil && *account.HouseholdID != householdID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}

	if entry.CategoryID == nil {
		if entry.SubcategoryID != nil {
			return fmt.Errorf("%w: subcategory requires a category", apperrors.ErrValidation)
		}
		return nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, *entry.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, *entry.CategoryID)
		}
		return err
	}
	if !category.IsDefault() && *category.HouseholdID != householdID {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, *entry.CategoryID)
	}
	if entry.SubcategoryID != nil && !hasSubcategory(*category, *entry.SubcategoryID) {
		return fmt.Errorf("%w: subcategory does not belong to the category", apperrors.ErrValidation)
	}
	return nil
}

func hasSubcategory(c domain.Category, subcategoryID string) bool {
	for _, sub := range c.Subcategories {
		if sub.SubcategoryID == subcategoryID {
			return true
		}
	}
	return false
}
