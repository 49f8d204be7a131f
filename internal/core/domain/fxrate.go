package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate is a snapshot from the external rate oracle. The core ledger never
// consumes rates; they serve the surrounding cash-transaction plumbing.
type FxRate struct {
	RateID        string          `json:"rateID"` // Primary key (UUID)
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	AuditFields
}
