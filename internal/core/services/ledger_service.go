package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
	"github.com/accountica/ledger_backend/internal/utils/accounting"
	"github.com/accountica/ledger_backend/internal/utils/money"
	"github.com/accountica/ledger_backend/pkg/config"
)

// ledgerService provides read-side reporting over the posted ledger projection.
// Draft journal entries never influence any number produced here.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	eclRepo     portsrepo.ECLRepositoryFacade
	sysAccounts config.SystemAccounts
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, eclRepo portsrepo.ECLRepositoryFacade, sysAccounts config.SystemAccounts) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
		eclRepo:     eclRepo,
		sysAccounts: sysAccounts,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AccountBalance computes an account's signed balance from posted activity up to asOf.
func (s *ledgerService) AccountBalance(ctx context.Context, companyID string, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	totalDebit, totalCredit, err := s.ledgerRepo.GetAccountTotals(ctx, companyID, accountID, nil, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate postings for account %s: %w", accountID, err)
	}

	balance, err := accounting.SignedBalance(totalDebit, totalCredit, account.NormalBalance)
	if err != nil {
		return nil, err
	}

	return &domain.AccountBalance{
		AccountID:     account.AccountID,
		Code:          account.Code,
		Name:          account.Name,
		AccountType:   account.AccountType,
		NormalBalance: account.NormalBalance,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		Balance:       balance,
	}, nil
}

// ListAccountPostings retrieves a paginated slice of an account's postings.
func (s *ledgerService) ListAccountPostings(ctx context.Context, companyID string, accountID string, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	to := time.Now().UTC()
	if params.To != nil {
		to = *params.To
	}

	postings, nextToken, err := s.ledgerRepo.ListPostingsByAccount(ctx, companyID, accountID, params.From, to, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}

	return dto.ToListPostingsResponse(postings, nextToken), nil
}

// TrialBalance generates the trial balance over a window. Balanced totals hold
// for any history produced by the posting invariants; IsBalanced surfaces the
// check rather than asserting it.
func (s *ledgerService) TrialBalance(ctx context.Context, companyID string, periodStart *time.Time, periodEnd time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balances, err := s.ledgerRepo.GetTrialBalanceTotals(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}

	report := &domain.TrialBalanceReport{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Rows:        make([]domain.TrialBalanceRow, 0, len(balances)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, b := range balances {
		signed, err := accounting.SignedBalance(b.TotalDebit, b.TotalCredit, b.NormalBalance)
		if err != nil {
			return nil, err
		}

		row := domain.TrialBalanceRow{
			AccountID:     b.AccountID,
			Code:          b.Code,
			Name:          b.Name,
			AccountType:   b.AccountType,
			NormalBalance: b.NormalBalance,
			DebitColumn:   decimal.Zero,
			CreditColumn:  decimal.Zero,
		}

		// An abnormal (negative) balance lands in the column opposite the
		// account's normal side, as a positive figure.
		magnitude := signed
		column := b.NormalBalance
		if signed.IsNegative() {
			magnitude = signed.Neg()
			row.IsAbnormal = true
			if column == domain.NormalDebit {
				column = domain.NormalCredit
			} else {
				column = domain.NormalDebit
			}
		}
		if column == domain.NormalDebit {
			row.DebitColumn = magnitude
		} else {
			row.CreditColumn = magnitude
		}

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.DebitColumn)
		report.TotalCredit = report.TotalCredit.Add(row.CreditColumn)
	}

	report.IsBalanced = money.Equal(report.TotalDebit, report.TotalCredit)
	if !report.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()),
		)
	}

	return report, nil
}

// AgingReport generates the aged receivables or payables report as of a date.
// Only documents recognised in the ledger age; each receivable carries its
// latest live ECL allowance and the aged total is reconciled against the
// control account's posted balance.
func (s *ledgerService) AgingReport(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time) (*domain.AgingReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoices, err := s.invoiceRepo.ListOutstandingBySide(ctx, companyID, side, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}

	report := &domain.AgingReport{
		AsOfDate: asOf,
		Side:     side,
		BucketTotals: map[string]decimal.Decimal{
			domain.AgingColumnCurrent: decimal.Zero,
			domain.AgingColumn1To30:   decimal.Zero,
			domain.AgingColumn31To60:  decimal.Zero,
			domain.AgingColumn61To90:  decimal.Zero,
			domain.AgingColumnOver90:  decimal.Zero,
		},
		TotalOutstanding: decimal.Zero,
		TotalECL:         decimal.Zero,
		NetReceivable:    decimal.Zero,
	}

	docs := make([]domain.AgedDocument, 0, len(invoices))
	invoiceIDs := make([]string, 0, len(invoices))

	for _, inv := range invoices {
		if inv.JournalEntryID == nil {
			// An unrecognised document has no posting in the control account;
			// including it would break reconciliation.
			continue
		}
		paid, err := s.invoiceRepo.SumConfirmedPayments(ctx, inv.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments for invoice %s: %w", inv.InvoiceID, err)
		}
		outstanding := inv.TotalAmount.Sub(paid)
		if !outstanding.IsPositive() || money.IsZero(outstanding) {
			continue
		}

		days := domain.DaysPastDue(asOf, inv.DueDate)
		bucket := domain.BucketForDays(days)

		docs = append(docs, domain.AgedDocument{
			InvoiceID:   inv.InvoiceID,
			Number:      inv.Number,
			PartyID:     inv.PartyID,
			DueDate:     inv.DueDate,
			DaysPastDue: days,
			Outstanding: outstanding,
			Bucket:      bucket,
			ECLAmount:   decimal.Zero,
			ECLRate:     decimal.Zero,
			NetAmount:   outstanding,
		})
		invoiceIDs = append(invoiceIDs, inv.InvoiceID)

		column := domain.AgingColumnForBucket(bucket)
		report.BucketTotals[column] = report.BucketTotals[column].Add(outstanding)
		report.TotalOutstanding = report.TotalOutstanding.Add(outstanding)
	}

	if side == domain.Receivable && len(invoiceIDs) > 0 {
		allowances, err := s.eclRepo.LatestAllowanceByInvoices(ctx, companyID, invoiceIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch ECL allowances: %w", err)
		}
		for i := range docs {
			allowance, ok := allowances[docs[i].InvoiceID]
			if !ok {
				continue
			}
			docs[i].ECLAmount = allowance.ECLAmount
			docs[i].ECLRate = allowance.ECLRate
			docs[i].NetAmount = docs[i].Outstanding.Sub(allowance.ECLAmount)
			report.TotalECL = report.TotalECL.Add(allowance.ECLAmount)
		}
	}

	report.Documents = docs
	report.NetReceivable = report.TotalOutstanding.Sub(report.TotalECL)
	report.Reconciliation = s.reconcileAging(ctx, companyID, side, asOf, report.TotalOutstanding)

	if !report.Reconciliation.IsReconciled {
		logger.Warn("Aging report does not reconcile with control account",
			slog.String("company_id", companyID),
			slog.String("side", string(side)),
			slog.String("difference", report.Reconciliation.Difference.String()),
		)
	}

	return report, nil
}

// reconcileAging compares the aged total against the control account's balance.
// Any failure here degrades to an unreconciled warning; the report still renders.
func (s *ledgerService) reconcileAging(ctx context.Context, companyID string, side domain.DocumentSide, asOf time.Time, agedTotal decimal.Decimal) domain.AgingReconciliation {
	controlCode := s.sysAccounts.AccountsReceivable
	if side == domain.Payable {
		controlCode = s.sysAccounts.AccountsPayable
	}

	rec := domain.AgingReconciliation{
		ControlAccountCode: controlCode,
		LedgerBalance:      decimal.Zero,
		AgedTotal:          agedTotal,
		Difference:         agedTotal,
		IsReconciled:       false,
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, controlCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			rec.Note = fmt.Sprintf("control account %s not present in chart of accounts", controlCode)
		} else {
			rec.Note = "control account lookup failed"
		}
		return rec
	}

	totalDebit, totalCredit, err := s.ledgerRepo.GetAccountTotals(ctx, companyID, account.AccountID, nil, asOf)
	if err != nil {
		rec.Note = "control account balance aggregation failed"
		return rec
	}

	balance, err := accounting.SignedBalance(totalDebit, totalCredit, account.NormalBalance)
	if err != nil {
		rec.Note = err.Error()
		return rec
	}

	rec.LedgerBalance = balance
	rec.Difference = balance.Sub(agedTotal)
	rec.IsReconciled = money.Equal(balance, agedTotal)
	if !rec.IsReconciled {
		rec.Note = "aged documents do not sum to the control account balance; postings outside the subledger are the usual cause"
	}
	return rec
}
