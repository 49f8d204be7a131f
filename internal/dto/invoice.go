package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the data needed to create a new invoice.
type CreateInvoiceRequest struct {
	Number      string              `json:"number" binding:"required"`
	PartyID     string              `json:"partyID" binding:"required"`
	Side        domain.DocumentSide `json:"side" binding:"required,oneof=RECEIVABLE PAYABLE"`
	TotalAmount decimal.Decimal     `json:"totalAmount" binding:"required"`
	IssueDate   time.Time           `json:"issueDate" binding:"required"`
	DueDate     time.Time           `json:"dueDate" binding:"required"`
}

// RecordPaymentRequest defines the data needed to apply a payment to an invoice.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	PaidAt *time.Time      `json:"paidAt"` // Defaults to now
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	CompanyID      string               `json:"companyID"`
	Number         string               `json:"number"`
	PartyID        string               `json:"partyID"`
	Side           domain.DocumentSide  `json:"side"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	IssueDate      time.Time            `json:"issueDate"`
	DueDate        time.Time            `json:"dueDate"`
	Status         domain.InvoiceStatus `json:"status"`
	JournalEntryID *string              `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		CompanyID:      inv.CompanyID,
		Number:         inv.Number,
		PartyID:        inv.PartyID,
		Side:           inv.Side,
		TotalAmount:    inv.TotalAmount,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Status:         inv.Status,
		JournalEntryID: inv.JournalEntryID,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
	}
}
