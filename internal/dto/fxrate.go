package dto

import (
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaveFxRateRequest defines the data needed to record an exchange rate.
type SaveFxRateRequest struct {
	FromCurrency  string          `json:"fromCurrency" binding:"required,len=3"`
	ToCurrency    string          `json:"toCurrency" binding:"required,len=3"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required"`
}

// FxRateResponse defines the data returned for an exchange rate.
type FxRateResponse struct {
	RateID        string          `json:"rateID"`
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToFxRateResponse converts a domain.FxRate to FxRateResponse DTO.
func ToFxRateResponse(r *domain.FxRate) FxRateResponse {
	return FxRateResponse{
		RateID:        r.RateID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
	}
}
