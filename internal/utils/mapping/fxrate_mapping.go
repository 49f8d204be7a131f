package mapping

import (
	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/models"
)

// ToModelFxRate converts a domain FxRate to a model FxRate
func ToModelFxRate(d domain.FxRate) models.FxRate {
	return models.FxRate{
		RateID:        d.RateID,
		FromCurrency:  d.FromCurrency,
		ToCurrency:    d.ToCurrency,
		Rate:          d.Rate,
		EffectiveDate: d.EffectiveDate,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFxRate converts a model FxRate to a domain FxRate
func ToDomainFxRate(m models.FxRate) domain.FxRate {
	return domain.FxRate{
		RateID:        m.RateID,
		FromCurrency:  m.FromCurrency,
		ToCurrency:    m.ToCurrency,
		Rate:          m.Rate,
		EffectiveDate: m.EffectiveDate,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFxRateSlice converts a slice of model FxRates to domain FxRates
func ToDomainFxRateSlice(ms []models.FxRate) []domain.FxRate {
	ds := make([]domain.FxRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFxRate(m)
	}
	return ds
}
