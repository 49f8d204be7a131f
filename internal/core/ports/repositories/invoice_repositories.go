package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its identifier.
	FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)

	// ListOutstandingBySide retrieves unsettled SENT and OVERDUE invoices with a
	// recognising journal entry on the given side, issued on or before asOf.
	ListOutstandingBySide(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) ([]domain.Invoice, error)

	// SumConfirmedPayments sums CONFIRMED payments applied to an invoice.
	SumConfirmedPayments(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// SavePayment persists a payment against an invoice.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdateInvoiceStatus transitions an invoice's lifecycle status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, actorID string, at time.Time) error

	// LinkJournalEntry attaches the journal entry that recognised the invoice.
	LinkJournalEntry(ctx context.Context, invoiceID, journalEntryID, actorID string, at time.Time) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
