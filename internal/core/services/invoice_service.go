package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/accountica/ledger_backend/internal/utils/money"
)

var (
	ErrDueBeforeIssue    = errors.New("invoice due date precedes its issue date")
	ErrPaymentExceedsDue = errors.New("payment exceeds the invoice's outstanding balance")
	ErrInvoiceNotPayable = errors.New("invoice does not accept payments in its current status")
)

// invoiceService maintains the invoice read-side that feeds aging and ECL.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice persists a new invoice in SENT status so it immediately feeds
// the aging and provisioning pipelines.
func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, creatorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice amount must be positive", apperrors.ErrValidation)
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, ErrDueBeforeIssue
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		CompanyID:   companyID,
		Number:      req.Number,
		PartyID:     req.PartyID,
		Side:        req.Side,
		TotalAmount: req.TotalAmount,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Status:      domain.InvoiceSent,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, req.Number)
		}
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice by ID.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, companyID string, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// OutstandingAmount computes an invoice's unsettled balance.
func (s *invoiceService) OutstandingAmount(ctx context.Context, companyID string, invoiceID string) (decimal.Decimal, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	paid, err := s.invoiceRepo.SumConfirmedPayments(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return invoice.TotalAmount.Sub(paid), nil
}

// RecordPayment applies a confirmed payment, transitioning the invoice to PAID
// once the balance reaches zero within the monetary epsilon.
func (s *invoiceService) RecordPayment(ctx context.Context, companyID string, invoiceID string, req dto.RecordPaymentRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoiceCancelled || invoice.Status == domain.InvoicePaid {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvoiceNotPayable, invoice.Number, invoice.Status)
	}

	paid, err := s.invoiceRepo.SumConfirmedPayments(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	outstanding := invoice.TotalAmount.Sub(paid)
	if req.Amount.GreaterThan(outstanding) && !money.Equal(req.Amount, outstanding) {
		return nil, fmt.Errorf("%w: %s > %s", ErrPaymentExceedsDue, req.Amount.String(), outstanding.String())
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := domain.Payment{
		PaymentID: uuid.NewString(),
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Status:    domain.PaymentConfirmed,
		PaidAt:    paidAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.invoiceRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	if money.Equal(outstanding, req.Amount) {
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoicePaid, actorID, now); err != nil {
			return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
		}
		invoice.Status = domain.InvoicePaid
	}
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actorID

	logger.Info("Payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(invoice.Status)),
	)
	return invoice, nil
}
