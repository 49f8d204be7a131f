package services

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ECLSvcFacade defines operations of the expected credit loss provisioning engine
type ECLSvcFacade interface {
	// CalculateInvoiceECL computes and records a provision for one invoice.
	// A nil rates map applies the default rate table; an existing ACTIVE
	// provision is superseded atomically.
	CalculateInvoiceECL(ctx context.Context, companyID string, invoiceID string, asOf time.Time, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*domain.ECLProvision, error)

	// PostProvision posts the provision's adjustment to the journal. Adjustments
	// below the monetary epsilon post nothing.
	PostProvision(ctx context.Context, companyID string, provisionID string, actorID string) (*domain.ECLProvision, error)

	// ProcessMonthly calculates provisions across all outstanding receivables,
	// posting each adjustment when autoPost is set and collecting per-invoice
	// failures.
	ProcessMonthly(ctx context.Context, companyID string, asOf time.Time, autoPost bool, rates map[domain.AgingBucket]decimal.Decimal, actorID string) (*dto.ECLRunResult, error)

	// WriteOffBadDebt writes off part or all of an invoice's outstanding balance.
	WriteOffBadDebt(ctx context.Context, companyID string, invoiceID string, req dto.WriteOffRequest, actorID string) (*domain.ECLProvision, error)

	// RecordRecovery records cash recovered against a written-off invoice.
	RecordRecovery(ctx context.Context, companyID string, invoiceID string, req dto.RecoveryRequest, actorID string) (*domain.ECLProvision, error)

	// ListProvisionHistory retrieves an invoice's provision history, newest first.
	ListProvisionHistory(ctx context.Context, companyID string, invoiceID string) ([]domain.ECLProvision, error)
}
