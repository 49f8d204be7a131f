package mapping

import (
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/models"
)

// ToModelECLProvision converts a domain ECLProvision to a model ECLProvision
func ToModelECLProvision(d domain.ECLProvision) models.ECLProvision {
	return models.ECLProvision{
		ProvisionID:       d.ProvisionID,
		CompanyID:         d.CompanyID,
		InvoiceID:         d.InvoiceID,
		CalculationDate:   d.CalculationDate,
		AgingBucket:       string(d.AgingBucket),
		OutstandingAmount: d.OutstandingAmount,
		ECLRate:           d.ECLRate,
		ECLAmount:         d.ECLAmount,
		PreviousECLAmount: d.PreviousECLAmount,
		AdjustmentAmount:  d.AdjustmentAmount,
		Status:            models.ECLProvisionStatus(d.Status),
		WriteOffAmount:    d.WriteOffAmount,
		WriteOffReason:    d.WriteOffReason,
		RecoveredAmount:   d.RecoveredAmount,
		JournalEntryID:    d.JournalEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainECLProvision converts a model ECLProvision to a domain ECLProvision
func ToDomainECLProvision(m models.ECLProvision) domain.ECLProvision {
	return domain.ECLProvision{
		ProvisionID:       m.ProvisionID,
		CompanyID:         m.CompanyID,
		InvoiceID:         m.InvoiceID,
		CalculationDate:   m.CalculationDate,
		AgingBucket:       domain.AgingBucket(m.AgingBucket),
		OutstandingAmount: m.OutstandingAmount,
		ECLRate:           m.ECLRate,
		ECLAmount:         m.ECLAmount,
		PreviousECLAmount: m.PreviousECLAmount,
		AdjustmentAmount:  m.AdjustmentAmount,
		Status:            domain.ECLProvisionStatus(m.Status),
		WriteOffAmount:    m.WriteOffAmount,
		WriteOffReason:    m.WriteOffReason,
		RecoveredAmount:   m.RecoveredAmount,
		JournalEntryID:    m.JournalEntryID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainECLProvisionSlice converts a slice of model ECLProvisions to domain ECLProvisions
func ToDomainECLProvisionSlice(ms []models.ECLProvision) []domain.ECLProvision {
	ds := make([]domain.ECLProvision, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainECLProvision(m)
	}
	return ds
}
