package accounting

import (
	"fmt"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// SignedBalance signs aggregate debit/credit totals according to the account's
// normal-balance side. This is used in both services and repositories to keep
// balance math consistent:
// DEBIT-normal accounts accumulate as debit - credit,
// CREDIT-normal accounts accumulate as credit - debit.
func SignedBalance(totalDebit, totalCredit decimal.Decimal, normal domain.NormalBalance) (decimal.Decimal, error) {
	switch normal {
	case domain.NormalDebit:
		return totalDebit.Sub(totalCredit), nil
	case domain.NormalCredit:
		return totalCredit.Sub(totalDebit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance side '%s'", normal)
	}
}

// ValidateEntryBalance checks the entry-level double-entry invariant:
// sum(debit) must equal sum(credit) within the monetary epsilon (inclusive,
// so a rounding residue of exactly one cent still balances), and the totals
// must be positive (an entry with zero activity is invalid).
func ValidateEntryBalance(lines []domain.LineItem) error {
	totalDebit := domain.TotalDebit(lines)
	totalCredit := domain.TotalCredit(lines)

	if money.IsZero(totalDebit) || money.IsZero(totalCredit) {
		return fmt.Errorf("entry has no monetary activity: debits %s, credits %s",
			totalDebit.String(), totalCredit.String())
	}
	if !money.WithinTolerance(totalDebit, totalCredit) {
		return fmt.Errorf("entry does not balance: debits %s, credits %s",
			totalDebit.String(), totalCredit.String())
	}
	return nil
}
