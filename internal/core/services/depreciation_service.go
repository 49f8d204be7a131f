package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/accountica/ledger_backend/internal/utils/money"
	"github.com/accountica/ledger_backend/pkg/config"
)

var (
	ErrManualMethodRequired = errors.New("units-of-production depreciation requires manual entries")
	ErrScheduleExists       = errors.New("asset already has an active depreciation schedule")
	ErrScheduleFulfilled    = errors.New("depreciation schedule is already fulfilled")
	ErrResidualExceedsPrice = errors.New("residual value must be less than the purchase price")
	ErrPeriodBeforeStart    = errors.New("period date precedes the schedule start date")
	ErrPeriodAfterEnd       = errors.New("period date exceeds the schedule end date")
)

var twelve = decimal.NewFromInt(12)

// depreciationService runs the periodic depreciation engine. Posted amounts go
// through the journal engine so every depreciation charge is a regular,
// balanced, reversible journal entry.
type depreciationService struct {
	depRepo     portsrepo.DepreciationRepositoryFacade
	journalSvc  portssvc.JournalSvcFacade
	sysAccounts config.SystemAccounts
}

// NewDepreciationService creates a new DepreciationService.
func NewDepreciationService(depRepo portsrepo.DepreciationRepositoryFacade, journalSvc portssvc.JournalSvcFacade, sysAccounts config.SystemAccounts) portssvc.DepreciationSvcFacade {
	return &depreciationService{
		depRepo:     depRepo,
		journalSvc:  journalSvc,
		sysAccounts: sysAccounts,
	}
}

// Ensure depreciationService implements the portssvc.DepreciationSvcFacade interface
var _ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)

// CreateSchedule derives the per-period parameters for an asset and persists the
// schedule. Only one active, unfulfilled schedule may exist per asset.
func (s *depreciationService) CreateSchedule(ctx context.Context, companyID string, req dto.CreateScheduleRequest, creatorID string) (*domain.DepreciationSchedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Method == domain.UnitsOfProduction {
		return nil, ErrManualMethodRequired
	}
	if req.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: purchase price must be positive", apperrors.ErrValidation)
	}
	if req.ResidualValue.IsNegative() {
		return nil, fmt.Errorf("%w: residual value must not be negative", apperrors.ErrValidation)
	}
	if req.ResidualValue.GreaterThanOrEqual(req.PurchasePrice) {
		return nil, ErrResidualExceedsPrice
	}

	existing, err := s.depRepo.FindActiveScheduleByAsset(ctx, companyID, req.AssetID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing schedule: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: asset %s", ErrScheduleExists, req.AssetID)
	}

	depreciable := req.PurchasePrice.Sub(req.ResidualValue)
	months := decimal.NewFromInt(int64(req.UsefulLifeMonths))
	years := months.Div(twelve)

	var annualRate, perMonth decimal.Decimal
	switch req.Method {
	case domain.StraightLine:
		perMonth = money.Round(depreciable.Div(months))
	case domain.DecliningBalance:
		annualRate = decimal.NewFromFloat(1.5).Div(years)
	case domain.DoubleDeclining:
		annualRate = decimal.NewFromInt(2).Div(years)
	case domain.SumOfYearsDigits:
		// First-year fraction 2/(n+1), applied as a flat monthly amount.
		annualRate = decimal.NewFromInt(2).Div(years.Add(decimal.NewFromInt(1)))
		perMonth = money.Round(depreciable.Mul(annualRate).Div(twelve))
	default:
		return nil, fmt.Errorf("%w: unknown depreciation method %s", apperrors.ErrValidation, req.Method)
	}

	now := time.Now().UTC()
	schedule := domain.DepreciationSchedule{
		ScheduleID:           uuid.NewString(),
		CompanyID:            companyID,
		AssetID:              req.AssetID,
		Method:               req.Method,
		PurchasePrice:        req.PurchasePrice,
		ResidualValue:        req.ResidualValue,
		DepreciableAmount:    depreciable,
		UsefulLifeMonths:     req.UsefulLifeMonths,
		AnnualRate:           annualRate,
		DepreciationPerMonth: perMonth,
		StartDate:            req.StartDate,
		EndDate:              req.StartDate.AddDate(0, req.UsefulLifeMonths, 0),
		IsActive:             true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.depRepo.SaveSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to save depreciation schedule", slog.String("error", err.Error()), slog.String("asset_id", req.AssetID))
		return nil, fmt.Errorf("failed to save depreciation schedule: %w", err)
	}

	logger.Info("Depreciation schedule created",
		slog.String("schedule_id", schedule.ScheduleID),
		slog.String("asset_id", req.AssetID),
		slog.String("method", string(req.Method)),
	)
	return &schedule, nil
}

// GetSchedule retrieves a depreciation schedule by ID.
func (s *depreciationService) GetSchedule(ctx context.Context, companyID string, scheduleID string) (*domain.DepreciationSchedule, error) {
	schedule, err := s.depRepo.FindScheduleByID(ctx, companyID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule %s: %w", scheduleID, err)
	}
	return schedule, nil
}

// periodAmount computes the raw depreciation charge for one period given the
// book value entering the period.
func periodAmount(schedule *domain.DepreciationSchedule, bookValueBefore decimal.Decimal) decimal.Decimal {
	switch schedule.Method {
	case domain.DecliningBalance, domain.DoubleDeclining:
		return money.Round(bookValueBefore.Mul(schedule.AnnualRate).Div(twelve))
	default:
		// Straight line and sum-of-years-digits use the flat monthly amount.
		return schedule.DepreciationPerMonth
	}
}

// CalculatePeriod computes one period's depreciation for an asset and records a
// CALCULATED entry. The charge is clamped so the book value lands exactly on
// the residual; reaching it fulfils the schedule permanently.
func (s *depreciationService) CalculatePeriod(ctx context.Context, companyID string, assetID string, periodDate time.Time, actorID string) (*domain.DepreciationEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedule, err := s.depRepo.FindActiveScheduleByAsset(ctx, companyID, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule for asset %s: %w", assetID, err)
	}
	if schedule.IsFulfilled {
		return nil, fmt.Errorf("%w: asset %s", ErrScheduleFulfilled, assetID)
	}
	if periodDate.Before(schedule.StartDate) {
		return nil, fmt.Errorf("%w: asset %s", ErrPeriodBeforeStart, assetID)
	}
	if periodDate.After(schedule.EndDate) {
		return nil, fmt.Errorf("%w: asset %s", ErrPeriodAfterEnd, assetID)
	}

	if existing, err := s.depRepo.FindEntryByAssetPeriod(ctx, companyID, assetID, periodDate); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: asset %s already depreciated for %s", apperrors.ErrDuplicate, assetID, periodDate.Format("2006-01"))
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing depreciation entry: %w", err)
	}

	accumulated, err := s.depRepo.SumRecordedDepreciation(ctx, schedule.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum recorded depreciation: %w", err)
	}

	bookBefore := schedule.PurchasePrice.Sub(accumulated)
	remaining := bookBefore.Sub(schedule.ResidualValue)
	if money.IsZero(remaining) || remaining.IsNegative() {
		// Book value already at residual; make the terminal state explicit.
		if err := s.depRepo.MarkScheduleFulfilled(ctx, schedule.ScheduleID, actorID, time.Now().UTC()); err != nil {
			logger.Error("Failed to mark schedule fulfilled", slog.String("error", err.Error()), slog.String("schedule_id", schedule.ScheduleID))
		}
		return nil, fmt.Errorf("%w: asset %s", ErrScheduleFulfilled, assetID)
	}

	amount := periodAmount(schedule, bookBefore)
	if amount.GreaterThan(remaining) {
		amount = remaining // Final period lands exactly on residual
	}

	accumulatedAfter := accumulated.Add(amount)
	bookAfter := schedule.PurchasePrice.Sub(accumulatedAfter)

	now := time.Now().UTC()
	entry := domain.DepreciationEntry{
		DepreciationEntryID:     uuid.NewString(),
		CompanyID:               companyID,
		ScheduleID:              schedule.ScheduleID,
		AssetID:                 assetID,
		PeriodDate:              periodDate,
		DepreciationAmount:      amount,
		AccumulatedDepreciation: accumulatedAfter,
		BookValue:               bookAfter,
		Status:                  domain.DepreciationCalculated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.depRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save depreciation entry", slog.String("error", err.Error()), slog.String("asset_id", assetID))
		return nil, fmt.Errorf("failed to save depreciation entry: %w", err)
	}

	if money.Equal(bookAfter, schedule.ResidualValue) {
		if err := s.depRepo.MarkScheduleFulfilled(ctx, schedule.ScheduleID, actorID, now); err != nil {
			logger.Error("Failed to mark schedule fulfilled", slog.String("error", err.Error()), slog.String("schedule_id", schedule.ScheduleID))
		}
	}

	logger.Info("Depreciation calculated",
		slog.String("asset_id", assetID),
		slog.String("period", periodDate.Format("2006-01")),
		slog.String("amount", amount.String()),
		slog.String("book_value", bookAfter.String()),
	)
	return &entry, nil
}

// PostEntry posts a CALCULATED depreciation entry through the journal engine:
// debit depreciation expense, credit accumulated depreciation.
func (s *depreciationService) PostEntry(ctx context.Context, companyID string, depreciationEntryID string, actorID string) (*domain.DepreciationEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.depRepo.FindEntryByID(ctx, companyID, depreciationEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find depreciation entry %s: %w", depreciationEntryID, err)
	}
	if entry.Status == domain.DepreciationPosted {
		return nil, fmt.Errorf("%w: depreciation entry %s is already posted", apperrors.ErrConflict, depreciationEntryID)
	}
	if money.IsZero(entry.DepreciationAmount) {
		return nil, fmt.Errorf("%w: depreciation amount below the monetary epsilon", apperrors.ErrValidation)
	}

	journalReq := dto.CreateEntryRequest{
		EntryDate:   entry.PeriodDate,
		Description: fmt.Sprintf("Depreciation for asset %s, period %s", entry.AssetID, entry.PeriodDate.Format("2006-01")),
		Lines: []dto.CreateLineItemRequest{
			{AccountCode: s.sysAccounts.DepreciationExpense, Debit: entry.DepreciationAmount},
			{AccountCode: s.sysAccounts.AccumulatedDepreciation, Credit: entry.DepreciationAmount},
		},
	}

	journalEntry, err := s.journalSvc.CreateEntry(ctx, companyID, journalReq, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create depreciation journal entry: %w", err)
	}
	if _, err := s.journalSvc.PostEntry(ctx, companyID, journalEntry.EntryID, actorID); err != nil {
		return nil, fmt.Errorf("failed to post depreciation journal entry: %w", err)
	}

	now := time.Now().UTC()
	if err := s.depRepo.LinkJournalEntry(ctx, depreciationEntryID, journalEntry.EntryID, actorID, now); err != nil {
		logger.Error("Failed to link journal entry to depreciation entry",
			slog.String("error", err.Error()),
			slog.String("depreciation_entry_id", depreciationEntryID),
			slog.String("journal_entry_id", journalEntry.EntryID),
		)
		// The charge is already in the ledger but the depreciation entry still
		// reads CALCULATED; a retry would post it again. Reversing the posted
		// entry keeps the ledger consistent with the record.
		if _, revErr := s.journalSvc.ReverseEntry(ctx, companyID, journalEntry.EntryID, actorID); revErr != nil {
			logger.Error("Failed to reverse orphaned depreciation journal entry",
				slog.String("error", revErr.Error()),
				slog.String("journal_entry_id", journalEntry.EntryID),
			)
		}
		return nil, fmt.Errorf("failed to link journal entry: %w", err)
	}

	entry.Status = domain.DepreciationPosted
	entry.JournalEntryID = &journalEntry.EntryID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID

	logger.Info("Depreciation entry posted",
		slog.String("depreciation_entry_id", depreciationEntryID),
		slog.String("journal_entry_id", journalEntry.EntryID),
	)
	return entry, nil
}

// ProcessPeriod calculates one period's depreciation across every active
// schedule covering the period date, posting each charge when autoPost is set.
// One asset's failure never aborts the run.
func (s *depreciationService) ProcessPeriod(ctx context.Context, companyID string, periodDate time.Time, autoPost bool, actorID string) (*dto.DepreciationRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedules, err := s.depRepo.ListActiveSchedulesCovering(ctx, companyID, periodDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	result := &dto.DepreciationRunResult{
		PeriodDate: periodDate,
		Total:      decimal.Zero,
	}

	for _, schedule := range schedules {
		entry, err := s.CalculatePeriod(ctx, companyID, schedule.AssetID, periodDate, actorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, ErrScheduleFulfilled) {
				result.Skipped++
				continue
			}
			result.Failures = append(result.Failures, dto.AssetFailure{AssetID: schedule.AssetID, Reason: err.Error()})
			continue
		}
		result.Processed++
		result.Total = result.Total.Add(entry.DepreciationAmount)

		if !autoPost {
			continue // Entries stay CALCULATED for review
		}
		if _, err := s.PostEntry(ctx, companyID, entry.DepreciationEntryID, actorID); err != nil {
			result.Failures = append(result.Failures, dto.AssetFailure{AssetID: schedule.AssetID, Reason: err.Error()})
			continue
		}
		result.Posted++
	}

	logger.Info("Depreciation run completed",
		slog.String("period", periodDate.Format("2006-01")),
		slog.Int("processed", result.Processed),
		slog.Int("posted", result.Posted),
		slog.Int("skipped", result.Skipped),
		slog.Int("failures", len(result.Failures)),
	)
	return result, nil
}
