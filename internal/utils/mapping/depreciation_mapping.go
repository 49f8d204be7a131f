package mapping

import (
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/models"
)

// ToModelDepreciationSchedule converts a domain DepreciationSchedule to a model DepreciationSchedule
func ToModelDepreciationSchedule(d domain.DepreciationSchedule) models.DepreciationSchedule {
	return models.DepreciationSchedule{
		ScheduleID:           d.ScheduleID,
		CompanyID:            d.CompanyID,
		AssetID:              d.AssetID,
		Method:               models.DepreciationMethod(d.Method),
		PurchasePrice:        d.PurchasePrice,
		ResidualValue:        d.ResidualValue,
		DepreciableAmount:    d.DepreciableAmount,
		UsefulLifeMonths:     d.UsefulLifeMonths,
		AnnualRate:           d.AnnualRate,
		DepreciationPerMonth: d.DepreciationPerMonth,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		IsActive:             d.IsActive,
		IsFulfilled:          d.IsFulfilled,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDepreciationSchedule converts a model DepreciationSchedule to a domain DepreciationSchedule
func ToDomainDepreciationSchedule(m models.DepreciationSchedule) domain.DepreciationSchedule {
	return domain.DepreciationSchedule{
		ScheduleID:           m.ScheduleID,
		CompanyID:            m.CompanyID,
		AssetID:              m.AssetID,
		Method:               domain.DepreciationMethod(m.Method),
		PurchasePrice:        m.PurchasePrice,
		ResidualValue:        m.ResidualValue,
		DepreciableAmount:    m.DepreciableAmount,
		UsefulLifeMonths:     m.UsefulLifeMonths,
		AnnualRate:           m.AnnualRate,
		DepreciationPerMonth: m.DepreciationPerMonth,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		IsActive:             m.IsActive,
		IsFulfilled:          m.IsFulfilled,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDepreciationScheduleSlice converts a slice of model schedules to domain schedules
func ToDomainDepreciationScheduleSlice(ms []models.DepreciationSchedule) []domain.DepreciationSchedule {
	ds := make([]domain.DepreciationSchedule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDepreciationSchedule(m)
	}
	return ds
}

// ToModelDepreciationEntry converts a domain DepreciationEntry to a model DepreciationEntry
func ToModelDepreciationEntry(d domain.DepreciationEntry) models.DepreciationEntry {
	return models.DepreciationEntry{
		DepreciationEntryID:     d.DepreciationEntryID,
		CompanyID:               d.CompanyID,
		ScheduleID:              d.ScheduleID,
		AssetID:                 d.AssetID,
		PeriodDate:              d.PeriodDate,
		DepreciationAmount:      d.DepreciationAmount,
		AccumulatedDepreciation: d.AccumulatedDepreciation,
		BookValue:               d.BookValue,
		Status:                  models.DepreciationEntryStatus(d.Status),
		JournalEntryID:          d.JournalEntryID,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDepreciationEntry converts a model DepreciationEntry to a domain DepreciationEntry
func ToDomainDepreciationEntry(m models.DepreciationEntry) domain.DepreciationEntry {
	return domain.DepreciationEntry{
		DepreciationEntryID:     m.DepreciationEntryID,
		CompanyID:               m.CompanyID,
		ScheduleID:              m.ScheduleID,
		AssetID:                 m.AssetID,
		PeriodDate:              m.PeriodDate,
		DepreciationAmount:      m.DepreciationAmount,
		AccumulatedDepreciation: m.AccumulatedDepreciation,
		BookValue:               m.BookValue,
		Status:                  domain.DepreciationEntryStatus(m.Status),
		JournalEntryID:          m.JournalEntryID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}
