package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the aggregate of posted postings for one account over a window,
// signed according to the account's normal balance.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Balance       decimal.Decimal `json:"balance"` // Signed by normal-balance side
}

// TrialBalanceRow splits one account's balance into report columns. A negative
// (abnormal) balance lands in the column opposite the account's normal side.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	DebitColumn   decimal.Decimal `json:"debitColumn"`
	CreditColumn  decimal.Decimal `json:"creditColumn"`
	IsAbnormal    bool            `json:"isAbnormal"`
}

// TrialBalanceReport is the full snapshot; IsBalanced must hold for any history
// produced by a correctly posting journal engine.
type TrialBalanceReport struct {
	PeriodStart *time.Time        `json:"periodStart,omitempty"`
	PeriodEnd   time.Time         `json:"periodEnd"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebitColumn"`
	TotalCredit decimal.Decimal   `json:"totalCreditColumn"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AgedDocument is one outstanding invoice/expense placed in its aging bucket.
type AgedDocument struct {
	InvoiceID   string          `json:"invoiceID"`
	Number      string          `json:"number"`
	PartyID     string          `json:"partyID"`
	DueDate     time.Time       `json:"dueDate"`
	DaysPastDue int             `json:"daysPastDue"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Bucket      AgingBucket     `json:"bucket"`
	ECLAmount   decimal.Decimal `json:"eclAmount"` // Receivable side only
	ECLRate     decimal.Decimal `json:"eclRate"`   // Receivable side only
	NetAmount   decimal.Decimal `json:"netAmount"` // outstanding - ecl
}

// AgingReconciliation compares the aged total against the independently computed
// control-account balance. A mismatch is a warning, never an error.
type AgingReconciliation struct {
	ControlAccountCode string          `json:"controlAccountCode"`
	LedgerBalance      decimal.Decimal `json:"ledgerBalance"`
	AgedTotal          decimal.Decimal `json:"agedTotal"`
	Difference         decimal.Decimal `json:"difference"`
	IsReconciled       bool            `json:"isReconciled"`
	Note               string          `json:"note,omitempty"`
}

// AgingReport groups outstanding documents by days past due. Buckets beyond 90
// days collapse into the ">90" display column.
type AgingReport struct {
	AsOfDate         time.Time                  `json:"asOfDate"`
	Side             DocumentSide               `json:"side"`
	Documents        []AgedDocument             `json:"documents"`
	BucketTotals     map[string]decimal.Decimal `json:"bucketTotals"` // Current, 1-30, 31-60, 61-90, >90
	TotalOutstanding decimal.Decimal            `json:"totalOutstanding"`
	TotalECL         decimal.Decimal            `json:"totalEcl"`
	NetReceivable    decimal.Decimal            `json:"netReceivable"`
	Reconciliation   AgingReconciliation        `json:"reconciliation"`
}

// Display bucket labels for aging reports.
const (
	AgingColumnCurrent = "CURRENT"
	AgingColumn1To30   = "1-30"
	AgingColumn31To60  = "31-60"
	AgingColumn61To90  = "61-90"
	AgingColumnOver90  = ">90"
)

// AgingColumnForBucket collapses fine-grained buckets into report columns.
func AgingColumnForBucket(b AgingBucket) string {
	switch b {
	case BucketCurrent:
		return AgingColumnCurrent
	case Bucket1To30:
		return AgingColumn1To30
	case Bucket31To60:
		return AgingColumn31To60
	case Bucket61To90:
		return AgingColumn61To90
	default:
		return AgingColumnOver90
	}
}
