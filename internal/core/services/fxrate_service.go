package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accountica/ledger_backend/internal/apperrors"
	"github.com/accountica/ledger_backend/internal/core/domain"
	portsrepo "github.com/accountica/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/accountica/ledger_backend/internal/core/ports/services"
	"github.com/accountica/ledger_backend/internal/dto"
	"github.com/accountica/ledger_backend/internal/middleware"
)

var ErrSameCurrencyRate = errors.New("exchange rate requires two distinct currencies")

// fxRateService manages the exchange-rate snapshots consumed by the cash
// transaction plumbing. The core ledger itself is currency-agnostic.
type fxRateService struct {
	fxRepo portsrepo.FxRateRepositoryFacade
}

// NewFxRateService creates a new FxRateService.
func NewFxRateService(fxRepo portsrepo.FxRateRepositoryFacade) portssvc.FxRateSvcFacade {
	return &fxRateService{fxRepo: fxRepo}
}

// Ensure fxRateService implements the portssvc.FxRateSvcFacade interface
var _ portssvc.FxRateSvcFacade = (*fxRateService)(nil)

// GetCurrentRate retrieves the rate effective at a date for a currency pair.
func (s *fxRateService) GetCurrentRate(ctx context.Context, fromCurrency, toCurrency string, at time.Time) (*domain.FxRate, error) {
	rate, err := s.fxRepo.FindCurrentRate(ctx, strings.ToUpper(fromCurrency), strings.ToUpper(toCurrency), at)
	if err != nil {
		return nil, fmt.Errorf("failed to find rate %s/%s: %w", fromCurrency, toCurrency, err)
	}
	return rate, nil
}

// SaveRate records a rate observation.
func (s *fxRateService) SaveRate(ctx context.Context, req dto.SaveFxRateRequest, actorID string) (*domain.FxRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from := strings.ToUpper(req.FromCurrency)
	to := strings.ToUpper(req.ToCurrency)
	if from == to {
		return nil, ErrSameCurrencyRate
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	rate := domain.FxRate{
		RateID:        uuid.NewString(),
		FromCurrency:  from,
		ToCurrency:    to,
		Rate:          req.Rate,
		EffectiveDate: req.EffectiveDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.fxRepo.SaveRate(ctx, rate); err != nil {
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()), slog.String("pair", from+"/"+to))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	logger.Info("Exchange rate saved", slog.String("pair", from+"/"+to), slog.String("rate", req.Rate.String()))
	return &rate, nil
}

// Convert converts an amount between currencies at the rate effective at the date.
func (s *fxRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string, at time.Time) (decimal.Decimal, error) {
	from := strings.ToUpper(fromCurrency)
	to := strings.ToUpper(toCurrency)
	if from == to {
		return amount, nil
	}

	rate, err := s.fxRepo.FindCurrentRate(ctx, from, to, at)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find rate %s/%s: %w", from, to, err)
	}
	return amount.Mul(rate.Rate).Round(2), nil
}
