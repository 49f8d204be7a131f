package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the posted ledger projection.
// All sums aggregate the append-only postings table, never journal drafts.
type LedgerReader interface {
	// GetAccountTotals sums posted debits and credits for one account over
	// [periodStart, periodEnd]. A nil periodStart means from inception.
	GetAccountTotals(ctx context.Context, companyID, accountID string, periodStart *time.Time, periodEnd time.Time) (totalDebit, totalCredit decimal.Decimal, err error)

	// GetTrialBalanceTotals sums posted debits and credits per account over the
	// window, joined with the account master data needed to sign balances.
	// Accounts with no activity in the window are included with zero totals.
	GetTrialBalanceTotals(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) ([]domain.AccountBalance, error)

	// ListPostingsByAccount retrieves a paginated slice of an account's postings,
	// ordered by entry date then creation time.
	ListPostingsByAccount(ctx context.Context, companyID, accountID string, from *time.Time, to time.Time, limit int, nextToken *string) ([]domain.LedgerPosting, *string, error)
}
