package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/accountica/ledger_backend/internal/utils/accounting"
)

var (
	ErrEmptyEntry       = errors.New("journal entry must have at least two line items")
	ErrUnbalancedEntry  = errors.New("journal entry debits and credits do not balance")
	ErrOneSidedLine     = errors.New("line item must carry exactly one positive side")
	ErrUnknownAccount   = errors.New("line item references an unknown or inactive account")
	ErrNoOpenPeriod     = errors.New("no open fiscal period covers the entry date")
	ErrAlreadyPosted    = errors.New("journal entry is already posted")
	ErrNotPosted        = errors.New("journal entry is not posted")
	ErrAlreadyReversed  = errors.New("journal entry has already been reversed")
	ErrPeriodClosed     = errors.New("fiscal period is closed")
	ErrPeriodOverlap    = errors.New("fiscal period overlaps an existing period")
	ErrPeriodDatesOrder = errors.New("fiscal period start date must not be after its end date")
)

// UnpostedEntriesError reports how many draft entries block a period close.
type UnpostedEntriesError struct {
	Count int
}

func (e *UnpostedEntriesError) Error() string {
	return fmt.Sprintf("period still holds %d unposted journal entries", e.Count)
}

// journalService provides journal entry and fiscal period lifecycle operations.
// Posting and reversal own their database transaction: the entry flip and its
// ledger projection commit together or not at all.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	periodRepo  portsrepo.PeriodRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, periodRepo portsrepo.PeriodRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// resolveAccounts maps the requested account codes onto active accounts of the company.
func (s *journalService) resolveAccounts(ctx context.Context, companyID string, lines []dto.CreateLineItemRequest) (map[string]domain.Account, error) {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, companyID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, code := range codes {
		acc, found := accounts[code]
		if !found {
			return nil, fmt.Errorf("%w: code %s", ErrUnknownAccount, code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", ErrUnknownAccount, code)
		}
	}
	return accounts, nil
}

// buildLineItems converts request lines into domain line items with resolved accounts.
func buildLineItems(entryID string, req []dto.CreateLineItemRequest, accounts map[string]domain.Account, actorID string, now time.Time) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, len(req))
	for i, l := range req {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount on account %s", apperrors.ErrValidation, l.AccountCode)
		}
		debitSide := l.Debit.IsPositive()
		creditSide := l.Credit.IsPositive()
		if debitSide == creditSide {
			return nil, fmt.Errorf("%w: account %s", ErrOneSidedLine, l.AccountCode)
		}

		acc := accounts[l.AccountCode]
		lines[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			EntryID:     entryID,
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines, nil
}

// CreateEntry validates and persists a new DRAFT journal entry.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, ErrEmptyEntry
	}

	accounts, err := s.resolveAccounts(ctx, companyID, req.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := buildLineItems(entryID, req.Lines, accounts, creatorID, now)
	if err != nil {
		return nil, err
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedEntry, err)
	}

	period, err := s.periodRepo.FindOpenPeriodCovering(ctx, companyID, req.EntryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoOpenPeriod, req.EntryDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      companyID,
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		Status:         domain.EntryDraft,
		FiscalPeriodID: period.PeriodID,
		LineItems:      lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	// Claiming the sequence value and saving the entry share one transaction so
	// a failed save never burns a visible gap larger than necessary.
	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) //nolint:errcheck

	seq, err := s.journalRepo.NextEntryNumber(ctx, tx, companyID, req.EntryDate.Year(), req.EntryDate.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to claim entry number: %w", err)
	}
	entry.EntryNumber = domain.FormatEntryNumber(req.EntryDate, seq)

	if err := s.journalRepo.SaveEntry(ctx, tx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber), slog.String("company_id", companyID))
	return &entry, nil
}

// PostEntry atomically posts a DRAFT entry. It locks the entry and its period,
// revalidates the balance invariant, projects the lines into immutable ledger
// postings and flips the entry to POSTED, all in one transaction.
func (s *journalService) PostEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) //nolint:errcheck

	entry, err := s.journalRepo.FindEntryForPosting(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if entry.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", ErrAlreadyPosted, entry.EntryNumber)
	}

	// Locking the period row serializes posting against a concurrent close.
	period, err := s.periodRepo.FindPeriodForUpdate(ctx, tx, companyID, entry.FiscalPeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock fiscal period: %w", err)
	}
	if period.Status == domain.PeriodClosed {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, period.Name)
	}

	if err := accounting.ValidateEntryBalance(entry.LineItems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnbalancedEntry, err)
	}

	now := time.Now().UTC()
	postings := projectPostings(entry, now, actorID)

	if err := s.journalRepo.InsertPostings(ctx, tx, postings); err != nil {
		logger.Error("Failed to insert ledger postings", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to insert ledger postings: %w", err)
	}

	if err := s.journalRepo.MarkEntryPosted(ctx, tx, entryID, now, actorID); err != nil {
		return nil, fmt.Errorf("failed to mark entry posted: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit posting: %w", err)
	}

	entry.Status = domain.EntryPosted
	entry.IsPosted = true
	entry.PostedAt = &now
	entry.PostedBy = actorID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber), slog.Int("postings", len(postings)))
	return entry, nil
}

// projectPostings derives the write-once ledger rows from a posted entry's lines.
func projectPostings(entry *domain.JournalEntry, now time.Time, actorID string) []domain.LedgerPosting {
	postings := make([]domain.LedgerPosting, len(entry.LineItems))
	for i, li := range entry.LineItems {
		postings[i] = domain.LedgerPosting{
			PostingID:      uuid.NewString(),
			CompanyID:      entry.CompanyID,
			EntryID:        entry.EntryID,
			LineItemID:     li.LineItemID,
			AccountID:      li.AccountID,
			AccountCode:    li.AccountCode,
			EntryDate:      entry.EntryDate,
			Debit:          li.Debit,
			Credit:         li.Credit,
			FiscalPeriodID: entry.FiscalPeriodID,
			CreatedAt:      now,
			CreatedBy:      actorID,
		}
	}
	return postings
}

// ReverseEntry creates and immediately posts the mirror image of a POSTED entry.
// The reversal is dated now, landing in whichever open period covers today, so
// history is corrected without touching closed periods.
func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	period, err := s.periodRepo.FindOpenPeriodCovering(ctx, companyID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoOpenPeriod, now.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) //nolint:errcheck

	source, err := s.journalRepo.FindEntryForPosting(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	if !source.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", ErrNotPosted, source.EntryNumber)
	}
	if source.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s reversed by %s", ErrAlreadyReversed, source.EntryNumber, *source.ReversingEntryID)
	}

	// Locking the period row serializes the reversal against a concurrent
	// close, same as posting. The pre-transaction read only chose the period;
	// its status is only trustworthy under the lock.
	locked, err := s.periodRepo.FindPeriodForUpdate(ctx, tx, companyID, period.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock fiscal period: %w", err)
	}
	if locked.Status == domain.PeriodClosed {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, locked.Name)
	}

	reversalID := uuid.NewString()
	lines := make([]domain.LineItem, len(source.LineItems))
	for i, li := range source.LineItems {
		lines[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   li.AccountID,
			AccountCode: li.AccountCode,
			Debit:       li.Credit, // Mirror image
			Credit:      li.Debit,
			Memo:        li.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	seq, err := s.journalRepo.NextEntryNumber(ctx, tx, companyID, now.Year(), now.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to claim entry number: %w", err)
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		CompanyID:       companyID,
		EntryNumber:     domain.FormatEntryNumber(now, seq),
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of %s: %s", source.EntryNumber, source.Description),
		Status:          domain.EntryPosted,
		IsPosted:        true,
		FiscalPeriodID:  period.PeriodID,
		ReversedEntryID: &source.EntryID,
		IsReversing:     true,
		PostedAt:        &now,
		PostedBy:        actorID,
		LineItems:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, tx, reversal, lines); err != nil {
		logger.Error("Failed to save reversing entry", slog.String("error", err.Error()), slog.String("source_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	if err := s.journalRepo.InsertPostings(ctx, tx, projectPostings(&reversal, now, actorID)); err != nil {
		return nil, fmt.Errorf("failed to insert reversal postings: %w", err)
	}

	if err := s.journalRepo.LinkReversal(ctx, tx, source.EntryID, reversalID, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to link reversal: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit reversal: %w", err)
	}

	logger.Info("Journal entry reversed", slog.String("source_entry_id", entryID), slog.String("reversal_entry_id", reversalID), slog.String("reversal_number", reversal.EntryNumber))
	return &reversal, nil
}

// GetEntryByID retrieves a journal entry with its line items.
func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLineItemsByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch line items for entry %s: %w", entryID, err)
	}
	entry.LineItems = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries for a company.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return dto.ToListEntriesResponse(entries, nextToken), nil
}

// CreatePeriod opens a new fiscal period after overlap validation.
func (s *journalService) CreatePeriod(ctx context.Context, companyID string, req dto.CreatePeriodRequest, creatorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.EndDate.Before(req.StartDate) {
		return nil, ErrPeriodDatesOrder
	}

	overlap, err := s.periodRepo.HasOverlappingPeriod(ctx, companyID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if overlap {
		return nil, fmt.Errorf("%w: %s to %s", ErrPeriodOverlap, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	logger.Info("Fiscal period opened", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// ListPeriods retrieves all fiscal periods of a company.
func (s *journalService) ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListPeriodsByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ClosePeriod closes an OPEN period. The period row lock plus the draft count
// check guarantee no entry can slip into the period while it closes.
func (s *journalService) ClosePeriod(ctx context.Context, companyID string, periodID string, actorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) //nolint:errcheck

	period, err := s.periodRepo.FindPeriodForUpdate(ctx, tx, companyID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock fiscal period: %w", err)
	}

	if period.Status == domain.PeriodClosed {
		return nil, fmt.Errorf("%w: period %s", ErrPeriodClosed, period.Name)
	}

	count, err := s.journalRepo.CountDraftEntriesInPeriod(ctx, tx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft entries: %w", err)
	}
	if count > 0 {
		return nil, &UnpostedEntriesError{Count: count}
	}

	now := time.Now().UTC()
	if err := s.periodRepo.ClosePeriod(ctx, tx, periodID, now, actorID); err != nil {
		logger.Error("Failed to close fiscal period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to close fiscal period: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit period close: %w", err)
	}

	period.Status = domain.PeriodClosed
	period.ClosedAt = &now
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actorID

	logger.Info("Fiscal period closed", slog.String("period_id", periodID), slog.String("name", period.Name))
	return period, nil
}
