package mapping

import (
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		CompanyID:      d.CompanyID,
		Number:         d.Number,
		PartyID:        d.PartyID,
		Side:           models.DocumentSide(d.Side),
		TotalAmount:    d.TotalAmount,
		IssueDate:      d.IssueDate,
		DueDate:        d.DueDate,
		Status:         models.InvoiceStatus(d.Status),
		JournalEntryID: d.JournalEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		CompanyID:      m.CompanyID,
		Number:         m.Number,
		PartyID:        m.PartyID,
		Side:           domain.DocumentSide(m.Side),
		TotalAmount:    m.TotalAmount,
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		Status:         domain.InvoiceStatus(m.Status),
		JournalEntryID: m.JournalEntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		InvoiceID:   d.InvoiceID,
		Amount:      d.Amount,
		Status:      models.PaymentStatus(d.Status),
		PaidAt:      d.PaidAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Status:      domain.PaymentStatus(m.Status),
		PaidAt:      m.PaidAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
