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

const provisionColumns = `provision_id, company_id, invoice_id, calculation_date, aging_bucket, outstanding_amount, ecl_rate, ecl_amount, previous_ecl_amount, adjustment_amount, status, write_off_amount, write_off_reason, recovered_amount, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxECLRepository struct {
	pool *pgxpool.Pool
}

// newPgxECLRepository creates a new repository for expected credit loss data.
func newPgxECLRepository(pool *pgxpool.Pool) portsrepo.ECLRepositoryFacade {
	return &PgxECLRepository{pool: pool}
}

// Ensure PgxECLRepository implements portsrepo.ECLRepositoryFacade
var _ portsrepo.ECLRepositoryFacade = (*PgxECLRepository)(nil)

func scanProvision(row pgx.Row) (models.ECLProvision, error) {
	var m models.ECLProvision
	var journalEntryID sql.NullString

	err := row.Scan(
		&m.ProvisionID,
		&m.CompanyID,
		&m.InvoiceID,
		&m.CalculationDate,
		&m.AgingBucket,
		&m.OutstandingAmount,
		&m.ECLRate,
		&m.ECLAmount,
		&m.PreviousECLAmount,
		&m.AdjustmentAmount,
		&m.Status,
		&m.WriteOffAmount,
		&m.WriteOffReason,
		&m.RecoveredAmount,
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

// SaveProvisionSuperseding persists a new ACTIVE provision and, when
// supersededID is non-nil, flips the prior provision to REVERSED in the same
// database transaction. The partial unique index on ACTIVE rows per invoice
// makes a lost race surface as ErrDuplicate instead of a double allowance.
func (r *PgxECLRepository) SaveProvisionSuperseding(ctx context.Context, provision domain.ECLProvision, supersededID *string) error {
	m := mapping.ToModelECLProvision(provision)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin provision transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if supersededID != nil {
		query := `
			UPDATE ecl_provisions
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE provision_id = $1 AND status = $5;
		`
		cmdTag, err := tx.Exec(ctx, query, *supersededID, models.ECLProvisionStatus(domain.ProvisionReversed), m.LastUpdatedAt, m.LastUpdatedBy, models.ECLProvisionStatus(domain.ProvisionActive))
		if err != nil {
			return fmt.Errorf("failed to supersede provision %s: %w", *supersededID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: provision %s is no longer active", apperrors.ErrConflict, *supersededID)
		}
	}

	insertQuery := `
		INSERT INTO ecl_provisions (` + provisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.ProvisionID,
		m.CompanyID,
		m.InvoiceID,
		m.CalculationDate,
		m.AgingBucket,
		m.OutstandingAmount,
		m.ECLRate,
		m.ECLAmount,
		m.PreviousECLAmount,
		m.AdjustmentAmount,
		m.Status,
		m.WriteOffAmount,
		m.WriteOffReason,
		m.RecoveredAmount,
		m.JournalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s already has an active provision", apperrors.ErrDuplicate, m.InvoiceID)
		}
		return fmt.Errorf("failed to save provision %s: %w", m.ProvisionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit provision transaction", err)
	}
	return nil
}

// FindProvisionByID retrieves a provision by its identifier.
func (r *PgxECLRepository) FindProvisionByID(ctx context.Context, companyID, provisionID string) (*domain.ECLProvision, error) {
	query := `
		SELECT ` + provisionColumns + `
		FROM ecl_provisions
		WHERE company_id = $1 AND provision_id = $2;
	`
	m, err := scanProvision(r.pool.QueryRow(ctx, query, companyID, provisionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find provision by ID %s: %w", provisionID, err)
	}

	d := mapping.ToDomainECLProvision(m)
	return &d, nil
}

// FindActiveProvisionByInvoice retrieves the single ACTIVE provision of an invoice.
func (r *PgxECLRepository) FindActiveProvisionByInvoice(ctx context.Context, companyID, invoiceID string) (*domain.ECLProvision, error) {
	query := `
		SELECT ` + provisionColumns + `
		FROM ecl_provisions
		WHERE company_id = $1 AND invoice_id = $2 AND status = $3;
	`
	m, err := scanProvision(r.pool.QueryRow(ctx, query, companyID, invoiceID, models.ECLProvisionStatus(domain.ProvisionActive)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active provision for invoice %s: %w", invoiceID, err)
	}

	d := mapping.ToDomainECLProvision(m)
	return &d, nil
}

// ListProvisionsByInvoice retrieves an invoice's provision history, newest first.
func (r *PgxECLRepository) ListProvisionsByInvoice(ctx context.Context, companyID, invoiceID string) ([]domain.ECLProvision, error) {
	query := `
		SELECT ` + provisionColumns + `
		FROM ecl_provisions
		WHERE company_id = $1 AND invoice_id = $2
		ORDER BY calculation_date DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provisions for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	ms := []models.ECLProvision{}
	for rows.Next() {
		m, err := scanProvision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provision row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating provision rows: %w", rows.Err())
	}

	return mapping.ToDomainECLProvisionSlice(ms), nil
}

// LatestAllowanceByInvoices retrieves each invoice's newest ACTIVE or
// WRITTEN_OFF provision amount and rate, keyed by invoice id. REVERSED and
// RECOVERED provisions carry no live allowance.
func (r *PgxECLRepository) LatestAllowanceByInvoices(ctx context.Context, companyID string, invoiceIDs []string) (map[string]domain.ECLAllowance, error) {
	if len(invoiceIDs) == 0 {
		return map[string]domain.ECLAllowance{}, nil
	}

	query := `
		SELECT DISTINCT ON (invoice_id) invoice_id, ecl_amount, ecl_rate
		FROM ecl_provisions
		WHERE company_id = $1 AND invoice_id = ANY($2) AND status IN ($3, $4)
		ORDER BY invoice_id, calculation_date DESC, created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, companyID, invoiceIDs,
		models.ECLProvisionStatus(domain.ProvisionActive), models.ECLProvisionStatus(domain.ProvisionWrittenOff))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest allowances by invoices: %w", err)
	}
	defer rows.Close()

	allowances := make(map[string]domain.ECLAllowance)
	for rows.Next() {
		var invoiceID string
		var a domain.ECLAllowance
		if err := rows.Scan(&invoiceID, &a.ECLAmount, &a.ECLRate); err != nil {
			return nil, fmt.Errorf("failed to scan allowance row: %w", err)
		}
		allowances[invoiceID] = a
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating allowance rows: %w", rows.Err())
	}

	return allowances, nil
}

// UpdateProvisionOnPost attaches the posted adjustment journal entry.
func (r *PgxECLRepository) UpdateProvisionOnPost(ctx context.Context, provisionID, journalEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE ecl_provisions
		SET journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE provision_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, provisionID, journalEntryID, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to attach journal entry to provision %s: %w", provisionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkWrittenOff flips a provision to WRITTEN_OFF with the write-off details.
func (r *PgxECLRepository) MarkWrittenOff(ctx context.Context, provisionID string, amount decimal.Decimal, reason, journalEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE ecl_provisions
		SET status = $2, write_off_amount = $3, write_off_reason = $4, journal_entry_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE provision_id = $1 AND status = $8;
	`
	cmdTag, err := r.pool.Exec(ctx, query, provisionID, models.ECLProvisionStatus(domain.ProvisionWrittenOff), amount, reason, journalEntryID, at, actorID, models.ECLProvisionStatus(domain.ProvisionActive))
	if err != nil {
		return fmt.Errorf("failed to mark provision %s written off: %w", provisionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: provision %s is not active", apperrors.ErrConflict, provisionID)
	}
	return nil
}

// MarkRecovered records a recovery against a written-off provision. The status
// flips to RECOVERED once the cumulative recovery reaches the write-off amount.
func (r *PgxECLRepository) MarkRecovered(ctx context.Context, provisionID string, amount decimal.Decimal, journalEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE ecl_provisions
		SET recovered_amount = recovered_amount + $2,
		    status = CASE WHEN recovered_amount + $2 >= write_off_amount THEN $3 ELSE status END,
		    journal_entry_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE provision_id = $1 AND status = $7;
	`
	cmdTag, err := r.pool.Exec(ctx, query, provisionID, amount, models.ECLProvisionStatus(domain.ProvisionRecovered), journalEntryID, at, actorID, models.ECLProvisionStatus(domain.ProvisionWrittenOff))
	if err != nil {
		return fmt.Errorf("failed to record recovery on provision %s: %w", provisionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: provision %s is not written off", apperrors.ErrConflict, provisionID)
	}
	return nil
}
