package services

import (
	"context"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// InvoiceSvcFacade defines operations for the invoice read-side that feeds
// aging and ECL calculations
type InvoiceSvcFacade interface {
	// CreateInvoice persists a new invoice.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice by ID.
	GetInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error)

	// RecordPayment applies a confirmed payment to an invoice, transitioning it
	// to PAID once fully settled.
	RecordPayment(ctx context.Context, companyID string, invoiceID string, req dto.RecordPaymentRequest, actorID string) (*domain.Invoice, error)

	// OutstandingAmount computes an invoice's unsettled balance.
	OutstandingAmount(ctx context.Context, companyID string, invoiceID string) (decimal.Decimal, error)
}
