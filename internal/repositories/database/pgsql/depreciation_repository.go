package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	"github.com/accountica/ledger_backend/internal/models"
	"github.com/accountica/ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const scheduleColumns = `schedule_id, company_id, asset_id, method, purchase_price, residual_value, depreciable_amount, useful_life_months, annual_rate, depreciation_per_month, start_date, end_date, is_active, is_fulfilled, created_at, created_by, last_updated_at, last_updated_by`

const depreciationEntryColumns = `depreciation_entry_id, company_id, schedule_id, asset_id, period_date, depreciation_amount, accumulated_depreciation, book_value, status, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxDepreciationRepository struct {
	pool *pgxpool.Pool
}

// newPgxDepreciationRepository creates a new repository for depreciation data.
func newPgxDepreciationRepository(pool *pgxpool.Pool) portsrepo.DepreciationRepositoryFacade {
	return &PgxDepreciationRepository{pool: pool}
}

// Ensure PgxDepreciationRepository implements portsrepo.DepreciationRepositoryFacade
var _ portsrepo.DepreciationRepositoryFacade = (*PgxDepreciationRepository)(nil)

func scanSchedule(row pgx.Row) (models.DepreciationSchedule, error) {
	var m models.DepreciationSchedule
	err := row.Scan(
		&m.ScheduleID,
		&m.CompanyID,
		&m.AssetID,
		&m.Method,
		&m.PurchasePrice,
		&m.ResidualValue,
		&m.DepreciableAmount,
		&m.UsefulLifeMonths,
		&m.AnnualRate,
		&m.DepreciationPerMonth,
		&m.StartDate,
		&m.EndDate,
		&m.IsActive,
		&m.IsFulfilled,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanDepreciationEntry(row pgx.Row) (models.DepreciationEntry, error) {
	var m models.DepreciationEntry
	var journalEntryID sql.NullString

	err := row.Scan(
		&m.DepreciationEntryID,
		&m.CompanyID,
		&m.ScheduleID,
		&m.AssetID,
		&m.PeriodDate,
		&m.DepreciationAmount,
		&m.AccumulatedDepreciation,
		&m.BookValue,
		&m.Status,
		&journalEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if journalEntryID.Valid {
		m.JournalEntryID = &journalEntryID.String
	}
	return m, nil
}

// SaveSchedule persists a new depreciation schedule. The partial unique index
// on (company_id, asset_id) for active, unfulfilled rows keeps one live
// schedule per asset.
func (r *PgxDepreciationRepository) SaveSchedule(ctx context.Context, schedule domain.DepreciationSchedule) error {
	m := mapping.ToModelDepreciationSchedule(schedule)

	query := `
		INSERT INTO depreciation_schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ScheduleID,
		m.CompanyID,
		m.AssetID,
		m.Method,
		m.PurchasePrice,
		m.ResidualValue,
		m.DepreciableAmount,
		m.UsefulLifeMonths,
		m.AnnualRate,
		m.DepreciationPerMonth,
		m.StartDate,
		m.EndDate,
		m.IsActive,
		m.IsFulfilled,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: asset %s already has an active schedule", apperrors.ErrDuplicate, m.AssetID)
		}
		return fmt.Errorf("failed to save depreciation schedule %s: %w", m.ScheduleID, err)
	}
	return nil
}

// FindScheduleByID retrieves a depreciation schedule by its identifier.
func (r *PgxDepreciationRepository) FindScheduleByID(ctx context.Context, companyID, scheduleID string) (*domain.DepreciationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM depreciation_schedules
		WHERE company_id = $1 AND schedule_id = $2;
	`
	m, err := scanSchedule(r.pool.QueryRow(ctx, query, companyID, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find depreciation schedule by ID %s: %w", scheduleID, err)
	}

	d := mapping.ToDomainDepreciationSchedule(m)
	return &d, nil
}

// FindActiveScheduleByAsset retrieves the active, unfulfilled schedule of an asset.
func (r *PgxDepreciationRepository) FindActiveScheduleByAsset(ctx context.Context, companyID, assetID string) (*domain.DepreciationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM depreciation_schedules
		WHERE company_id = $1 AND asset_id = $2 AND is_active = TRUE AND is_fulfilled = FALSE;
	`
	m, err := scanSchedule(r.pool.QueryRow(ctx, query, companyID, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active schedule for asset %s: %w", assetID, err)
	}

	d := mapping.ToDomainDepreciationSchedule(m)
	return &d, nil
}

// ListActiveSchedulesCovering retrieves active, unfulfilled schedules whose
// service window contains the given period date.
func (r *PgxDepreciationRepository) ListActiveSchedulesCovering(ctx context.Context, companyID string, periodDate time.Time) ([]domain.DepreciationSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM depreciation_schedules
		WHERE company_id = $1 AND is_active = TRUE AND is_fulfilled = FALSE
		  AND start_date <= $2 AND end_date >= $2
		ORDER BY asset_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID, periodDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query active schedules for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.DepreciationSchedule{}
	for rows.Next() {
		m, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan depreciation schedule row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating depreciation schedule rows: %w", rows.Err())
	}

	return mapping.ToDomainDepreciationScheduleSlice(ms), nil
}

// SaveEntry persists a calculated depreciation entry. The unique index on
// (schedule_id, period_date) rejects a second charge for the same period.
func (r *PgxDepreciationRepository) SaveEntry(ctx context.Context, entry domain.DepreciationEntry) error {
	m := mapping.ToModelDepreciationEntry(entry)

	query := `
		INSERT INTO depreciation_entries (` + depreciationEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.DepreciationEntryID,
		m.CompanyID,
		m.ScheduleID,
		m.AssetID,
		m.PeriodDate,
		m.DepreciationAmount,
		m.AccumulatedDepreciation,
		m.BookValue,
		m.Status,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: depreciation already recorded for asset %s in this period", apperrors.ErrDuplicate, m.AssetID)
		}
		return fmt.Errorf("failed to save depreciation entry %s: %w", m.DepreciationEntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a depreciation entry by its identifier.
func (r *PgxDepreciationRepository) FindEntryByID(ctx context.Context, companyID, depreciationEntryID string) (*domain.DepreciationEntry, error) {
	query := `
		SELECT ` + depreciationEntryColumns + `
		FROM depreciation_entries
		WHERE company_id = $1 AND depreciation_entry_id = $2;
	`
	m, err := scanDepreciationEntry(r.pool.QueryRow(ctx, query, companyID, depreciationEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find depreciation entry by ID %s: %w", depreciationEntryID, err)
	}

	d := mapping.ToDomainDepreciationEntry(m)
	return &d, nil
}

// FindEntryByAssetPeriod retrieves an asset's depreciation entry for a period date.
func (r *PgxDepreciationRepository) FindEntryByAssetPeriod(ctx context.Context, companyID, assetID string, periodDate time.Time) (*domain.DepreciationEntry, error) {
	query := `
		SELECT ` + depreciationEntryColumns + `
		FROM depreciation_entries
		WHERE company_id = $1 AND asset_id = $2 AND period_date = $3;
	`
	m, err := scanDepreciationEntry(r.pool.QueryRow(ctx, query, companyID, assetID, periodDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find depreciation entry for asset %s: %w", assetID, err)
	}

	d := mapping.ToDomainDepreciationEntry(m)
	return &d, nil
}

// SumRecordedDepreciation sums the depreciation amounts recorded against a schedule.
func (r *PgxDepreciationRepository) SumRecordedDepreciation(ctx context.Context, scheduleID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(depreciation_amount), 0)
		FROM depreciation_entries
		WHERE schedule_id = $1;
	`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, scheduleID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum recorded depreciation for schedule %s: %w", scheduleID, err)
	}
	return total, nil
}

// MarkScheduleFulfilled flips a schedule to fulfilled. Fulfilled is terminal.
func (r *PgxDepreciationRepository) MarkScheduleFulfilled(ctx context.Context, scheduleID, actorID string, at time.Time) error {
	query := `
		UPDATE depreciation_schedules
		SET is_fulfilled = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE schedule_id = $1 AND is_fulfilled = FALSE;
	`
	cmdTag, err := r.pool.Exec(ctx, query, scheduleID, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to mark schedule %s fulfilled: %w", scheduleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkJournalEntry attaches the posted journal entry to a depreciation entry
// and flips its status to POSTED.
func (r *PgxDepreciationRepository) LinkJournalEntry(ctx context.Context, depreciationEntryID, journalEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE depreciation_entries
		SET status = $2, journal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE depreciation_entry_id = $1 AND status = $6;
	`
	cmdTag, err := r.pool.Exec(ctx, query, depreciationEntryID, models.DepreciationPosted, journalEntryID, at, actorID, models.DepreciationCalculated)
	if err != nil {
		return fmt.Errorf("failed to link journal entry to depreciation entry %s: %w", depreciationEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: depreciation entry %s is already posted", apperrors.ErrConflict, depreciationEntryID)
	}
	return nil
}
