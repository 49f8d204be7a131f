package repositories

import (
	"context"
	"time"

	"github.com/accountica/ledger_backend/internal/core/domain"
)

// FxRateReader defines read operations for foreign exchange rates
type FxRateReader interface {
	// FindCurrentRate retrieves the rate effective at the given date for a
	// currency pair. Returns apperrors.ErrNotFound when no rate is loaded.
	FindCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error)

	// ListRates retrieves all loaded rates for a currency pair, newest first.
	ListRates(ctx context.Context, fromCurrency, toCurrency string) ([]domain.FxRate, error)
}

// FxRateWriter defines write operations for foreign exchange rates
type FxRateWriter interface {
	// SaveRate persists a rate observation.
	SaveRate(ctx context.Context, rate domain.FxRate) error
}

// FxRateRepositoryFacade combines all FX rate repository interfaces.
type FxRateRepositoryFacade interface {
	FxRateReader
	FxRateWriter
}
