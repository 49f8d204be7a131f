package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
)

// JournalEntry represents a single, balanced financial event composed of line items.
// Once posted an entry is immutable; corrections happen only via a reversing entry.
type JournalEntry struct {
	EntryID          string      `json:"entryID"`     // Primary key (UUID)
	CompanyID        string      `json:"companyID"`   // Owning tenant (non-null)
	EntryNumber      string      `json:"entryNumber"` // Human readable, JE-YYYY-MM-NNNN, monotonic per month
	EntryDate        time.Time   `json:"entryDate"`
	Description      string      `json:"description"`
	Status           EntryStatus `json:"status"`
	IsPosted         bool        `json:"isPosted"` // Monotonic false -> true
	FiscalPeriodID   string      `json:"fiscalPeriodID"`
	ReversedEntryID  *string     `json:"reversedEntryID,omitempty"`  // Set on the reversing entry, pointing at the source
	ReversingEntryID *string     `json:"reversingEntryID,omitempty"` // Set on the source once reversed
	IsReversing      bool        `json:"isReversing"`
	PostedAt         *time.Time  `json:"postedAt,omitempty"`
	PostedBy         string      `json:"postedBy,omitempty"`
	LineItems        []LineItem  `json:"lineItems,omitempty"`
	AuditFields
}

// LineItem is a single debit or credit against one account inside a journal entry.
// Both sides are non-negative; the entry-level balance invariant is what matters.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"` // Primary key (UUID)
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"` // Resolved chart-of-accounts code
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Memo        string          `json:"memo"`
	AuditFields
}

// Validate checks line-level constraints; the balance check is entry-level.
func (li LineItem) Validate() error {
	if li.AccountCode == "" && li.AccountID == "" {
		return fmt.Errorf("line item must reference an account")
	}
	if li.Debit.IsNegative() || li.Credit.IsNegative() {
		return fmt.Errorf("line item amounts must be non-negative")
	}
	return nil
}

// TotalDebit sums the debit side of a set of line items.
func TotalDebit(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range lines {
		total = total.Add(li.Debit)
	}
	return total
}

// TotalCredit sums the credit side of a set of line items.
func TotalCredit(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range lines {
		total = total.Add(li.Credit)
	}
	return total
}

// FormatEntryNumber renders the human-readable entry number for a date and sequence.
func FormatEntryNumber(date time.Time, seq int) string {
	return fmt.Sprintf("JE-%04d-%02d-%04d", date.Year(), int(date.Month()), seq)
}
