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
)

const periodColumns = `period_id, company_id, name, start_date, end_date, status, closed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for fiscal period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{pool: pool}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanFiscalPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	var closedAt sql.NullTime

	err := row.Scan(
		&m.PeriodID,
		&m.CompanyID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&closedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if closedAt.Valid {
		m.ClosedAt = &closedAt.Time
	}
	return m, nil
}

// SavePeriod persists a new fiscal period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.CompanyID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fiscal period %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save fiscal period %s: %w", m.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a fiscal period by its identifier.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, companyID, periodID string) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1 AND period_id = $2;
	`
	m, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query, companyID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period by ID %s: %w", periodID, err)
	}

	d := mapping.ToDomainFiscalPeriod(m)
	return &d, nil
}

// FindOpenPeriodCovering retrieves the OPEN period whose range contains date.
// Overlap prevention at creation time guarantees at most one match.
func (r *PgxPeriodRepository) FindOpenPeriodCovering(ctx context.Context, companyID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3;
	`
	m, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query, companyID, models.PeriodOpen, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open period covering %s: %w", date.Format("2006-01-02"), err)
	}

	d := mapping.ToDomainFiscalPeriod(m)
	return &d, nil
}

// ListPeriodsByCompany retrieves all fiscal periods for a company, newest first.
func (r *PgxPeriodRepository) ListPeriodsByCompany(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1
		ORDER BY start_date DESC;
	`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.FiscalPeriod{}
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", rows.Err())
	}

	return mapping.ToDomainFiscalPeriodSlice(ms), nil
}

// HasOverlappingPeriod reports whether any existing period overlaps [start, end].
func (r *PgxPeriodRepository) HasOverlappingPeriod(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM fiscal_periods
			WHERE company_id = $1 AND start_date <= $3 AND end_date >= $2
		);
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, companyID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check period overlap for company %s: %w", companyID, err)
	}
	return exists, nil
}

// FindPeriodForUpdate locks the period row (FOR UPDATE). The lock serializes
// period close against concurrent posting into the same period.
func (r *PgxPeriodRepository) FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID, periodID string) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE company_id = $1 AND period_id = $2
		FOR UPDATE;
	`
	m, err := scanFiscalPeriod(tx.QueryRow(ctx, query, companyID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock fiscal period %s: %w", periodID, err)
	}

	d := mapping.ToDomainFiscalPeriod(m)
	return &d, nil
}

// ClosePeriod flips the period to CLOSED inside tx. Closed is terminal, so the
// status guard rejects a double close.
func (r *PgxPeriodRepository) ClosePeriod(ctx context.Context, tx pgx.Tx, periodID string, closedAt time.Time, actorID string) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2, closed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, periodID, models.PeriodClosed, closedAt, actorID, models.PeriodOpen)
	if err != nil {
		return fmt.Errorf("failed to close fiscal period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal period %s is already closed", apperrors.ErrConflict, periodID)
	}
	return nil
}
