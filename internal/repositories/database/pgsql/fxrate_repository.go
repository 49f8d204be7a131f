package pgsql

import (
	"context"
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

const fxRateColumns = `rate_id, from_currency, to_currency, rate, effective_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxFxRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxFxRateRepository creates a new repository for FX rate data.
func newPgxFxRateRepository(pool *pgxpool.Pool) portsrepo.FxRateRepositoryFacade {
	return &PgxFxRateRepository{pool: pool}
}

// Ensure PgxFxRateRepository implements portsrepo.FxRateRepositoryFacade
var _ portsrepo.FxRateRepositoryFacade = (*PgxFxRateRepository)(nil)

func scanFxRate(row pgx.Row) (models.FxRate, error) {
	var m models.FxRate
	err := row.Scan(
		&m.RateID,
		&m.FromCurrency,
		&m.ToCurrency,
		&m.Rate,
		&m.EffectiveDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveRate persists a rate observation.
func (r *PgxFxRateRepository) SaveRate(ctx context.Context, rate domain.FxRate) error {
	m := mapping.ToModelFxRate(rate)

	query := `
		INSERT INTO fx_rates (` + fxRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.RateID,
		m.FromCurrency,
		m.ToCurrency,
		m.Rate,
		m.EffectiveDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rate for %s/%s at %s already exists", apperrors.ErrDuplicate, m.FromCurrency, m.ToCurrency, m.EffectiveDate.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to save fx rate %s: %w", m.RateID, err)
	}
	return nil
}

// FindCurrentRate retrieves the newest rate effective at or before the given
// date for a currency pair.
func (r *PgxFxRateRepository) FindCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error) {
	query := `
		SELECT ` + fxRateColumns + `
		FROM fx_rates
		WHERE from_currency = $1 AND to_currency = $2 AND effective_date <= $3
		ORDER BY effective_date DESC
		LIMIT 1;
	`
	m, err := scanFxRate(r.pool.QueryRow(ctx, query, fromCurrency, toCurrency, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate for %s/%s: %w", fromCurrency, toCurrency, err)
	}

	d := mapping.ToDomainFxRate(m)
	return &d, nil
}

// ListRates retrieves all loaded rates for a currency pair, newest first.
func (r *PgxFxRateRepository) ListRates(ctx context.Context, fromCurrency, toCurrency string) ([]domain.FxRate, error) {
	query := `
		SELECT ` + fxRateColumns + `
		FROM fx_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY effective_date DESC;
	`
	rows, err := r.pool.Query(ctx, query, fromCurrency, toCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %s/%s: %w", fromCurrency, toCurrency, err)
	}
	defer rows.Close()

	ms := []models.FxRate{}
	for rows.Next() {
		m, err := scanFxRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fx rate row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating fx rate rows: %w", rows.Err())
	}

	return mapping.ToDomainFxRateSlice(ms), nil
}
