package services

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
)

// DepreciationSvcFacade defines operations of the periodic depreciation engine
type DepreciationSvcFacade interface {
	// CreateSchedule derives and persists a depreciation schedule for an asset.
	CreateSchedule(ctx context.Context, companyID string, req dto.CreateScheduleRequest, creatorID string) (*domain.DepreciationSchedule, error)

	// GetSchedule retrieves a depreciation schedule by ID.
	GetSchedule(ctx context.Context, companyID string, scheduleID string) (*domain.DepreciationSchedule, error)

	// CalculatePeriod computes one period's depreciation for an asset and
	// records a CALCULATED entry. Idempotent per (asset, period).
	CalculatePeriod(ctx context.Context, companyID string, assetID string, periodDate time.Time, actorID string) (*domain.DepreciationEntry, error)

	// PostEntry posts a CALCULATED depreciation entry to the journal.
	PostEntry(ctx context.Context, companyID string, depreciationEntryID string, actorID string) (*domain.DepreciationEntry, error)

	// ProcessPeriod calculates one period's depreciation across every active
	// schedule whose window covers the period date, posting each charge when
	// autoPost is set and collecting per-asset failures.
	ProcessPeriod(ctx context.Context, companyID string, periodDate time.Time, autoPost bool, actorID string) (*dto.DepreciationRunResult, error)
}
