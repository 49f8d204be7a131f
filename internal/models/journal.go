package models

import (
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
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	CompanyID        string      `db:"company_id"`
	EntryNumber      string      `db:"entry_number"` // JE-YYYY-MM-NNNN, monotonic per month
	EntryDate        time.Time   `db:"entry_date"`
	Description      string      `db:"description"`
	Status           EntryStatus `db:"status"`
	IsPosted         bool        `db:"is_posted"`
	FiscalPeriodID   string      `db:"fiscal_period_id"`
	ReversedEntryID  *string     `db:"reversed_entry_id"`  // Nullable
	ReversingEntryID *string     `db:"reversing_entry_id"` // Nullable
	IsReversing      bool        `db:"is_reversing"`
	PostedAt         *time.Time  `db:"posted_at"` // Nullable
	PostedBy         string      `db:"posted_by"` // Nullable
	AuditFields
}

// LineItem is a single debit or credit line within a journal entry.
type LineItem struct {
	LineItemID  string          `db:"line_item_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Memo        string          `db:"memo"`
	AuditFields
}
