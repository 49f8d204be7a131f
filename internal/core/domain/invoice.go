package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of a source document.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// DocumentSide distinguishes receivable documents (customer invoices) from
// payable documents (vendor expenses) in aging reports.
type DocumentSide string

const (
	Receivable DocumentSide = "RECEIVABLE"
	Payable    DocumentSide = "PAYABLE"
)

// Invoice is a receivable or payable source document. The core only reads it:
// outstanding amounts drive aging and ECL provisioning.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"` // Primary key (UUID)
	CompanyID      string          `json:"companyID"`
	Number         string          `json:"number"`
	PartyID        string          `json:"partyID"` // Customer or vendor
	Side           DocumentSide    `json:"side"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Status         InvoiceStatus   `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"` // Posted ledger linkage
	AuditFields
}

// PaymentStatus marks whether a payment counts against the invoice's outstanding.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
)

// Payment is a (possibly partial) settlement of an invoice.
type Payment struct {
	PaymentID string          `json:"paymentID"` // Primary key (UUID)
	InvoiceID string          `json:"invoiceID"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PaymentStatus   `json:"status"`
	PaidAt    time.Time       `json:"paidAt"`
	AuditFields
}
