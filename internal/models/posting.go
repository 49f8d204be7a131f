package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerPosting is the immutable ledger-side projection of one line item.
// Rows are write-once; corrections arrive only as new postings.
type LedgerPosting struct {
	PostingID      string          `db:"posting_id"`
	CompanyID      string          `db:"company_id"`
	EntryID        string          `db:"entry_id"`
	LineItemID     string          `db:"line_item_id"`
	AccountID      string          `db:"account_id"`
	AccountCode    string          `db:"account_code"`
	EntryDate      time.Time       `db:"entry_date"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	FiscalPeriodID string          `db:"fiscal_period_id"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
}
