package services

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
)

// LedgerSvcFacade defines read-side operations over the posted ledger
type LedgerSvcFacade interface {
	// AccountBalance computes an account's signed balance from posted ledger
	// activity up to asOf.
	AccountBalance(ctx context.Context, companyID string, accountID string, asOf time.Time) (*domain.AccountBalance, error)

	// ListAccountPostings retrieves a paginated slice of an account's postings.
	ListAccountPostings(ctx context.Context, companyID string, accountID string, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error)

	// TrialBalance generates a trial balance over [periodStart, periodEnd].
	// A nil periodStart means from inception.
	TrialBalance(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) (*domain.TrialBalanceReport, error)

	// AgingReport generates an aged receivables or payables report as of a date,
	// reconciled against the corresponding control account balance.
	AgingReport(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) (*domain.AgingReport, error)
}
