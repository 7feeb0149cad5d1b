package reconcile

import "github.com/shopspring/decimal"

// DefaultTolerance is one hundredth of the amount unit.
var DefaultTolerance = decimal.New(1, -2)

// Classify returns derived - stored, or exactly zero when the magnitude of
// that difference is at most tolerance. The boundary itself is balanced.
func Classify(derived, stored, tolerance decimal.Decimal) decimal.Decimal {
	diff := derived.Sub(stored)
	if diff.Abs().LessThanOrEqual(tolerance) {
		return decimal.Zero
	}
	return diff
}
