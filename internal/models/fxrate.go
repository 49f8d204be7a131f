package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate stores an observed conversion rate between two currencies.
type FxRate struct {
	RateID        string          `db:"rate_id"`
	FromCurrency  string          `db:"from_currency"`
	ToCurrency    string          `db:"to_currency"`
	Rate          decimal.Decimal `db:"rate"`
	EffectiveDate time.Time       `db:"effective_date"`
	AuditFields
}
