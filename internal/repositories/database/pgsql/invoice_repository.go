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

const invoiceColumns = `invoice_id, company_id, number, party_id, side, total_amount, issue_date, due_date, status, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	pool *pgxpool.Pool
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{pool: pool}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	var journalEntryID sql.NullString

	err := row.Scan(
		&m.InvoiceID,
		&m.CompanyID,
		&m.Number,
		&m.PartyID,
		&m.Side,
		&m.TotalAmount,
		&m.IssueDate,
		&m.DueDate,
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

// SaveInvoice persists a new invoice.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.InvoiceID,
		m.CompanyID,
		m.Number,
		m.PartyID,
		m.Side,
		m.TotalAmount,
		m.IssueDate,
		m.DueDate,
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
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its identifier.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND invoice_id = $2;
	`
	m, err := scanInvoice(r.pool.QueryRow(ctx, query, companyID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	d := mapping.ToDomainInvoice(m)
	return &d, nil
}

// ListOutstandingBySide retrieves unsettled invoices on the given side, issued
// on or before asOf. Only SENT and OVERDUE documents with a recognising journal
// entry age; DRAFT documents are not yet in the ledger and PAID or CANCELLED
// documents never age.
func (r *PgxInvoiceRepository) ListOutstandingBySide(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND side = $2 AND issue_date <= $3
		  AND status IN ($4, $5)
		  AND journal_entry_id IS NOT NULL
		ORDER BY due_date, invoice_id;
	`
	rows, err := r.pool.Query(ctx, query, companyID, models.DocumentSide(side), asOf,
		models.InvoiceStatus(domain.InvoiceSent), models.InvoiceStatus(domain.InvoiceOverdue))
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding invoices for company %s: %w", companyID, err)
	}
	defer rows.Close()

	ms := []models.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}

	return mapping.ToDomainInvoiceSlice(ms), nil
}

// SumConfirmedPayments sums CONFIRMED payments applied to an invoice.
func (r *PgxInvoiceRepository) SumConfirmedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE invoice_id = $1 AND status = $2;
	`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, invoiceID, models.PaymentStatus(domain.PaymentConfirmed)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for invoice %s: %w", invoiceID, err)
	}
	return total, nil
}

// SavePayment persists a payment against an invoice.
func (r *PgxInvoiceRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)

	query := `
		INSERT INTO payments (payment_id, invoice_id, amount, status, paid_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PaymentID,
		m.InvoiceID,
		m.Amount,
		m.Status,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// UpdateInvoiceStatus transitions an invoice's lifecycle status.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, actorID string, at time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, invoiceID, models.InvoiceStatus(status), at, actorID)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkJournalEntry attaches the journal entry that recognised the invoice.
func (r *PgxInvoiceRepository) LinkJournalEntry(ctx context.Context, invoiceID, journalEntryID, actorID string, at time.Time) error {
	query := `
		UPDATE invoices
		SET journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, invoiceID, journalEntryID, at, actorID)
	if err != nil {
		return fmt.Errorf("failed to link journal entry to invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
