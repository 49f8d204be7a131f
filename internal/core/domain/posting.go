package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerPosting is the immutable ledger-side projection of one line item, created
// when its journal entry transitions to POSTED. Postings are write-once; corrections
// happen only via a reversing journal entry producing new postings.
type LedgerPosting struct {
	PostingID      string          `json:"postingID"` // Primary key (UUID)
	CompanyID      string          `json:"companyID"`
	EntryID        string          `json:"entryID"`
	LineItemID     string          `json:"lineItemID"`
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	EntryDate      time.Time       `json:"entryDate"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	FiscalPeriodID string          `json:"fiscalPeriodID"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}
