package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of a source document.
type InvoiceStatus string

// DocumentSide distinguishes receivable from payable documents.
type DocumentSide string

// Invoice is a receivable or payable source document.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	CompanyID      string          `db:"company_id"`
	Number         string          `db:"number"`
	PartyID        string          `db:"party_id"`
	Side           DocumentSide    `db:"side"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	IssueDate      time.Time       `db:"issue_date"`
	DueDate        time.Time       `db:"due_date"`
	Status         InvoiceStatus   `db:"status"`
	JournalEntryID *string         `db:"journal_entry_id"` // Nullable
	AuditFields
}

// PaymentStatus marks whether a payment counts against an invoice's outstanding.
type PaymentStatus string

// Payment is a (possibly partial) settlement of an invoice.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	InvoiceID string          `db:"invoice_id"`
	Amount    decimal.Decimal `db:"amount"`
	Status    PaymentStatus   `db:"status"`
	PaidAt    time.Time       `db:"paid_at"`
	AuditFields
}
