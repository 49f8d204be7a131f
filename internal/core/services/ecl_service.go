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
	"github.com/accountica/ledger_backend/pkg/config"
)

var (
	ErrNotReceivable              = errors.New("ECL provisioning applies to receivable invoices only")
	ErrInvoicePaid                = errors.New("invoice is already paid")
	ErrInvoiceCancelled           = errors.New("invoice is cancelled")
	ErrNothingOutstanding         = errors.New("invoice has no outstanding balance")
	ErrWriteOffExceedsOutstanding = errors.New("write-off amount exceeds the outstanding balance")
	ErrNotWrittenOff              = errors.New("invoice has no written-off provision")
	ErrRecoveryExceedsWriteOff    = errors.New("recovery amount exceeds the unrecovered write-off")
)

// eclService runs the expected credit loss provisioning engine. Allowance
// movements post through the journal engine; the provision records themselves
// form an auditable supersession chain per invoice.
type eclService struct {
	eclRepo     portsrepo.ECLRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalSvc  portssvc.JournalSvcFacade
	sysAccounts config.SystemAccounts
}

// NewECLService creates a new ECLService.
func NewECLService(eclRepo portsrepo.ECLRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, journalSvc portssvc.JournalSvcFacade, sysAccounts config.SystemAccounts) portssvc.ECLSvcFacade {
	return &eclService{
		eclRepo:     eclRepo,
		invoiceRepo: invoiceRepo,
		journalSvc:  journalSvc,
		sysAccounts: sysAccounts,
	}
}

// Ensure eclService implements the portssvc.ECLSvcFacade interface
var _ portssvc.ECLSvcFacade = (*eclService)(nil)

// resolveRate picks the loss rate for a bucket. Custom maps win; buckets they
// leave unmapped fall back to the default table's worst-bucket rate.
func resolveRate(bucket domain.AgingBucket, rates map[domain.AgingBucket]decimal.Decimal) decimal.Decimal {
	if rates == nil {
		return domain.DefaultECLRates()[bucket]
	}
	if rate, ok := rates[bucket]; ok {
		return rate
	}
	return domain.DefaultECLRates()[domain.BucketOver120]
}

// outstandingFor computes an invoice's unsettled balance.
func (s *eclService) outstandingFor(ctx context.Context, invoice *domain.Invoice) (decimal.Decimal, error) {
	paid, err := s.invoiceRepo.SumConfirmedPayments(ctx, invoice.InvoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for invoice %s: %w", invoice.InvoiceID, err)
	}
	return invoice.TotalAmount.Sub(paid), nil
}

// CalculateInvoiceECL computes and records a provision for one invoice, atomically
// superseding any prior ACTIVE provision.
func (s *eclService) CalculateInvoiceECL(ctx context.Context, companyID string, invoiceID string, asOf time.Time, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*domain.ECLProvision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Side != domain.Receivable {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotReceivable, invoice.Number)
	}
	if invoice.Status == domain.InvoicePaid {
		return nil, fmt.Errorf("%w: invoice %s", ErrInvoicePaid, invoice.Number)
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice %s", ErrInvoiceCancelled, invoice.Number)
	}

	outstanding, err := s.outstandingFor(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	var supersededID *string
	previousECL := decimal.Zero
	prior, err := s.eclRepo.FindActiveProvisionByInvoice(ctx, companyID, invoiceID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find active provision: %w", err)
	}
	if prior != nil {
		supersededID = &prior.ProvisionID
		previousECL = prior.ECLAmount
	}

	// A settled invoice with no prior provision has nothing to provision or release.
	if money.IsZero(outstanding) && prior == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNothingOutstanding, invoice.Number)
	}

	days := domain.DaysPastDue(asOf, invoice.DueDate)
	bucket := domain.BucketForDays(days)
	rate := resolveRate(bucket, rates)
	eclAmount := money.Round(outstanding.Mul(rate))

	now := time.Now().UTC()
	provision := domain.ECLProvision{
		ProvisionID:       uuid.NewString(),
		CompanyID:         companyID,
		InvoiceID:         invoiceID,
		CalculationDate:   asOf,
		AgingBucket:       bucket,
		OutstandingAmount: outstanding,
		ECLRate:           rate,
		ECLAmount:         eclAmount,
		PreviousECLAmount: previousECL,
		AdjustmentAmount:  eclAmount.Sub(previousECL),
		Status:            domain.ProvisionActive,
		WriteOffAmount:    decimal.Zero,
		RecoveredAmount:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.eclRepo.SaveProvisionSuperseding(ctx, provision, supersededID); err != nil {
		logger.Error("Failed to save ECL provision", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to save ECL provision: %w", err)
	}

	logger.Info("ECL provision calculated",
		slog.String("invoice_id", invoiceID),
		slog.String("bucket", string(bucket)),
		slog.String("ecl_amount", eclAmount.String()),
		slog.String("adjustment", provision.AdjustmentAmount.String()),
	)
	return &provision, nil
}

// PostProvision posts the provision's adjustment through the journal engine.
// Positive adjustments charge bad debt expense; negative adjustments release
// allowance back. Adjustments below the monetary epsilon post nothing.
func (s *eclService) PostProvision(ctx context.Context, companyID string, provisionID string, actorID string) (*domain.ECLProvision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	provision, err := s.eclRepo.FindProvisionByID(ctx, companyID, provisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find provision %s: %w", provisionID, err)
	}
	if provision.Status != domain.ProvisionActive {
		return nil, fmt.Errorf("%w: provision %s is %s", apperrors.ErrConflict, provisionID, provision.Status)
	}
	if provision.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: provision %s is already posted", apperrors.ErrConflict, provisionID)
	}

	adjustment := provision.AdjustmentAmount
	if money.IsZero(adjustment) {
		logger.Info("ECL adjustment below epsilon, nothing to post", slog.String("provision_id", provisionID))
		return provision, nil
	}

	var lines []dto.CreateLineItemRequest
	if adjustment.IsPositive() {
		lines = []dto.CreateLineItemRequest{
			{AccountCode: s.sysAccounts.BadDebtExpense, Debit: adjustment},
			{AccountCode: s.sysAccounts.AllowanceForECL, Credit: adjustment},
		}
	} else {
		release := adjustment.Neg()
		lines = []dto.CreateLineItemRequest{
			{AccountCode: s.sysAccounts.AllowanceForECL, Debit: release},
			{AccountCode: s.sysAccounts.BadDebtExpense, Credit: release},
		}
	}

	journalReq := dto.CreateEntryRequest{
		EntryDate:   provision.CalculationDate,
		Description: fmt.Sprintf("ECL adjustment for invoice %s (%s bucket)", provision.InvoiceID, provision.AgingBucket),
		Lines:       lines,
	}

	journalEntry, err := s.journalSvc.CreateEntry(ctx, companyID, journalReq, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create ECL journal entry: %w", err)
	}
	if _, err := s.journalSvc.PostEntry(ctx, companyID, journalEntry.EntryID, actorID); err != nil {
		return nil, fmt.Errorf("failed to post ECL journal entry: %w", err)
	}

	now := time.Now().UTC()
	if err := s.eclRepo.UpdateProvisionOnPost(ctx, provisionID, journalEntry.EntryID, actorID, now); err != nil {
		// The adjustment is in the ledger but the provision still reads
		// unposted; a retry would post it again. Reverse the posted entry so
		// the ledger matches the record.
		s.reverseOrphanedEntry(ctx, companyID, journalEntry.EntryID, actorID)
		return nil, fmt.Errorf("failed to attach journal entry to provision: %w", err)
	}

	provision.JournalEntryID = &journalEntry.EntryID
	provision.LastUpdatedAt = now
	provision.LastUpdatedBy = actorID

	logger.Info("ECL provision posted",
		slog.String("provision_id", provisionID),
		slog.String("journal_entry_id", journalEntry.EntryID),
		slog.String("adjustment", adjustment.String()),
	)
	return provision, nil
}

// reverseOrphanedEntry backs out a journal entry whose owning record failed to
// update after the post. A secondary failure is logged and left for manual
// correction; the caller still returns the original error.
func (s *eclService) reverseOrphanedEntry(ctx context.Context, companyID, journalEntryID, actorID string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if _, err := s.journalSvc.ReverseEntry(ctx, companyID, journalEntryID, actorID); err != nil {
		logger.Error("Failed to reverse orphaned journal entry",
			slog.String("error", err.Error()),
			slog.String("journal_entry_id", journalEntryID),
		)
	}
}

// ProcessMonthly calculates provisions over all outstanding receivables,
// posting each adjustment when autoPost is set. One invoice's failure never
// aborts the run.
func (s *eclService) ProcessMonthly(ctx context.Context, companyID string, asOf time.Time, autoPost bool, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*dto.ECLRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoices, err := s.invoiceRepo.ListOutstandingBySide(ctx, companyID, domain.Receivable, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding receivables: %w", err)
	}

	result := &dto.ECLRunResult{
		AsOf:     asOf,
		TotalECL: decimal.Zero,
	}

	for _, invoice := range invoices {
		provision, err := s.CalculateInvoiceECL(ctx, companyID, invoice.InvoiceID, asOf, rates, actorID)
		if err != nil {
			if errors.Is(err, ErrNothingOutstanding) {
				result.Skipped++
				continue
			}
			result.Failures = append(result.Failures, dto.InvoiceFailure{InvoiceID: invoice.InvoiceID, Reason: err.Error()})
			continue
		}
		result.Processed++
		result.TotalECL = result.TotalECL.Add(provision.ECLAmount)

		if !autoPost {
			continue // Provisions stay unposted for review
		}
		if money.IsZero(provision.AdjustmentAmount) {
			result.Skipped++
			continue
		}
		if _, err := s.PostProvision(ctx, companyID, provision.ProvisionID, actorID); err != nil {
			result.Failures = append(result.Failures, dto.InvoiceFailure{InvoiceID: invoice.InvoiceID, Reason: err.Error()})
			continue
		}
		result.Posted++
	}

	logger.Info("ECL run completed",
		slog.String("as_of", asOf.Format("2006-01-02")),
		slog.Int("processed", result.Processed),
		slog.Int("posted", result.Posted),
		slog.Int("skipped", result.Skipped),
		slog.Int("failures", len(result.Failures)),
	)
	return result, nil
}

// WriteOffBadDebt writes off part or all of an invoice's outstanding balance
// against the allowance: debit allowance, credit accounts receivable.
func (s *eclService) WriteOffBadDebt(ctx context.Context, companyID string, invoiceID string, req dto.WriteOffRequest, actorID string) (*domain.ECLProvision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: write-off amount must be positive", apperrors.ErrValidation)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Side != domain.Receivable {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotReceivable, invoice.Number)
	}

	outstanding, err := s.outstandingFor(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(outstanding) && !money.Equal(req.Amount, outstanding) {
		return nil, fmt.Errorf("%w: %s > %s", ErrWriteOffExceedsOutstanding, req.Amount.String(), outstanding.String())
	}

	provision, err := s.eclRepo.FindActiveProvisionByInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active provision for invoice %s: %w", invoiceID, err)
	}

	journalReq := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: fmt.Sprintf("Bad debt write-off for invoice %s: %s", invoice.Number, req.Reason),
		Lines: []dto.CreateLineItemRequest{
			{AccountCode: s.sysAccounts.AllowanceForECL, Debit: req.Amount},
			{AccountCode: s.sysAccounts.AccountsReceivable, Credit: req.Amount},
		},
	}

	journalEntry, err := s.journalSvc.CreateEntry(ctx, companyID, journalReq, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create write-off journal entry: %w", err)
	}
	if _, err := s.journalSvc.PostEntry(ctx, companyID, journalEntry.EntryID, actorID); err != nil {
		return nil, fmt.Errorf("failed to post write-off journal entry: %w", err)
	}

	now := time.Now().UTC()
	if err := s.eclRepo.MarkWrittenOff(ctx, provision.ProvisionID, req.Amount, req.Reason, journalEntry.EntryID, actorID, now); err != nil {
		// Posted write-off with the provision still ACTIVE invites a double
		// write-off on retry; back the entry out.
		s.reverseOrphanedEntry(ctx, companyID, journalEntry.EntryID, actorID)
		return nil, fmt.Errorf("failed to mark provision written off: %w", err)
	}

	provision.Status = domain.ProvisionWrittenOff
	provision.WriteOffAmount = req.Amount
	provision.WriteOffReason = req.Reason
	provision.JournalEntryID = &journalEntry.EntryID
	provision.LastUpdatedAt = now
	provision.LastUpdatedBy = actorID

	logger.Info("Bad debt written off",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("journal_entry_id", journalEntry.EntryID),
	)
	return provision, nil
}

// RecordRecovery records cash recovered against a previously written-off invoice:
// debit cash, credit bad debt expense.
func (s *eclService) RecordRecovery(ctx context.Context, companyID string, invoiceID string, req dto.RecoveryRequest, actorID string) (*domain.ECLProvision, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: recovery amount must be positive", apperrors.ErrValidation)
	}

	history, err := s.eclRepo.ListProvisionsByInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provision history for invoice %s: %w", invoiceID, err)
	}

	var provision *domain.ECLProvision
	for i := range history {
		if history[i].Status == domain.ProvisionWrittenOff {
			provision = &history[i]
			break
		}
	}
	if provision == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotWrittenOff, invoiceID)
	}

	unrecovered := provision.WriteOffAmount.Sub(provision.RecoveredAmount)
	if req.Amount.GreaterThan(unrecovered) && !money.Equal(req.Amount, unrecovered) {
		return nil, fmt.Errorf("%w: %s > %s", ErrRecoveryExceedsWriteOff, req.Amount.String(), unrecovered.String())
	}

	journalReq := dto.CreateEntryRequest{
		EntryDate:   time.Now().UTC(),
		Description: fmt.Sprintf("Bad debt recovery for invoice %s", invoiceID),
		Lines: []dto.CreateLineItemRequest{
			{AccountCode: s.sysAccounts.Cash, Debit: req.Amount},
			{AccountCode: s.sysAccounts.BadDebtExpense, Credit: req.Amount},
		},
	}

	journalEntry, err := s.journalSvc.CreateEntry(ctx, companyID, journalReq, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery journal entry: %w", err)
	}
	if _, err := s.journalSvc.PostEntry(ctx, companyID, journalEntry.EntryID, actorID); err != nil {
		return nil, fmt.Errorf("failed to post recovery journal entry: %w", err)
	}

	now := time.Now().UTC()
	if err := s.eclRepo.MarkRecovered(ctx, provision.ProvisionID, req.Amount, journalEntry.EntryID, actorID, now); err != nil {
		s.reverseOrphanedEntry(ctx, companyID, journalEntry.EntryID, actorID)
		return nil, fmt.Errorf("failed to record recovery: %w", err)
	}

	provision.RecoveredAmount = provision.RecoveredAmount.Add(req.Amount)
	if money.Equal(provision.RecoveredAmount, provision.WriteOffAmount) {
		provision.Status = domain.ProvisionRecovered
	}
	provision.LastUpdatedAt = now
	provision.LastUpdatedBy = actorID

	logger.Info("Bad debt recovery recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("journal_entry_id", journalEntry.EntryID),
	)
	return provision, nil
}

// ListProvisionHistory retrieves an invoice's provision history, newest first.
func (s *eclService) ListProvisionHistory(ctx context.Context, companyID string, invoiceID string) ([]domain.ECLProvision, error) {
	history, err := s.eclRepo.ListProvisionsByInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provision history: %w", err)
	}
	return history, nil
}
