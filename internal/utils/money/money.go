package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used for every monetary comparison in the ledger.
// Amounts are two-decimal currency; exact equality is never used.
var Epsilon = decimal.NewFromFloat(0.01)

// Equal reports whether a and b are equal within Epsilon. The boundary is
// exclusive: a difference of exactly Epsilon is not equal.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}

// WithinTolerance reports whether a and b differ by at most Epsilon. Unlike
// Equal, a difference of exactly Epsilon passes. Entry-level balance
// validation uses this inclusive boundary; reconciliation uses Equal.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// IsZero reports whether d is zero within Epsilon.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// Round normalizes a monetary amount to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
