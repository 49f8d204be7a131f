package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepreciationReader defines read operations for depreciation data
type DepreciationReader interface {
	// FindScheduleByID retrieves a depreciation schedule by its identifier.
	FindScheduleByID(ctx context.Context, companyID, scheduleID string) (*domain.DepreciationSchedule, error)

	// FindActiveScheduleByAsset retrieves the active, unfulfilled schedule of an
	// asset. Returns apperrors.ErrNotFound when none exists.
	FindActiveScheduleByAsset(ctx context.Context, companyID, assetID string) (*domain.DepreciationSchedule, error)

	// ListActiveSchedulesCovering retrieves active, unfulfilled schedules whose
	// service window contains the given period date.
	ListActiveSchedulesCovering(ctx context.Context, companyID string, periodDate time.Time) ([]domain.DepreciationSchedule, error)

	// FindEntryByID retrieves a depreciation entry by its identifier.
	FindEntryByID(ctx context.Context, companyID, depreciationEntryID string) (*domain.DepreciationEntry, error)

	// FindEntryByAssetPeriod retrieves an asset's depreciation entry for a given
	// period date. Returns apperrors.ErrNotFound when the period has no entry.
	FindEntryByAssetPeriod(ctx context.Context, companyID, assetID string, periodDate time.Time) (*domain.DepreciationEntry, error)

	// SumRecordedDepreciation sums the depreciation amounts of all entries
	// recorded against a schedule.
	SumRecordedDepreciation(ctx context.Context, scheduleID string) (decimal.Decimal, error)
}

// DepreciationWriter defines write operations for depreciation data
type DepreciationWriter interface {
	// SaveSchedule persists a new depreciation schedule.
	SaveSchedule(ctx context.Context, schedule domain.DepreciationSchedule) error

	// SaveEntry persists a calculated depreciation entry.
	SaveEntry(ctx context.Context, entry domain.DepreciationEntry) error

	// MarkScheduleFulfilled flips a schedule to fulfilled once book value
	// reaches residual. Fulfilled is terminal.
	MarkScheduleFulfilled(ctx context.Context, scheduleID, actorID string, at time.Time) error

	// LinkJournalEntry attaches the posted journal entry to a depreciation entry
	// and flips its status to POSTED.
	LinkJournalEntry(ctx context.Context, depreciationEntryID, journalEntryID, actorID string, at time.Time) error
}

// DepreciationRepositoryFacade combines all depreciation repository interfaces.
type DepreciationRepositoryFacade interface {
	DepreciationReader
	DepreciationWriter
}
