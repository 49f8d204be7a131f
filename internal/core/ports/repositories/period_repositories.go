package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodReader defines read operations for fiscal period data
type PeriodReader interface {
	// FindPeriodByID retrieves a fiscal period by its identifier.
	FindPeriodByID(ctx context.Context, companyID, periodID string) (*domain.FiscalPeriod, error)

	// FindOpenPeriodCovering retrieves the OPEN period whose date range contains
	// the given date. Returns apperrors.ErrNotFound when no open period covers it.
	FindOpenPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error)

	// ListPeriodsByCompany retrieves all fiscal periods for a company, newest first.
	ListPeriodsByCompany(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error)

	// HasOverlappingPeriod reports whether any existing period overlaps [start, end].
	HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error)
}

// PeriodWriter defines write operations for fiscal period data
type PeriodWriter interface {
	// SavePeriod persists a new fiscal period.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// FindPeriodForUpdate locks the period row (FOR UPDATE). The lock serializes
	// period close against concurrent posting into the same period.
	FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID, periodID string) (*domain.FiscalPeriod, error)

	// ClosePeriod flips the period to CLOSED inside tx.
	ClosePeriod(ctx context.Context, tx pgx.Tx, periodID string, closedAt time.Time, actorID string) error
}

// PeriodRepositoryFacade combines all fiscal-period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
