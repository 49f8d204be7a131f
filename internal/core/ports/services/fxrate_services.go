package services

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// FxRateSvcFacade defines operations for foreign exchange rate lookups
type FxRateSvcFacade interface {
	// GetCurrentRate retrieves the rate effective at a date for a currency pair.
	GetCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error)

	// SaveRate records a rate observation.
	SaveRate(ctx context.Context, req dto.SaveFxRateRequest, actorID string) (*domain.FxRate, error)

	// Convert converts an amount between currencies at the effective rate.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string, at time.Time) (decimal.Decimal, error)
}
