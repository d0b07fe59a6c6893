// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/proptools/buyrent-analyzer/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// CompoundFactor returns (1 + rate/100)^periods, the growth factor used
// for escalation, appreciation, and discounting.
func CompoundFactor(rate float64, periods int) float64 {
	if periods == 0 {
		return 1.0
	}
	return math.Pow(1.0+rate/constants.PercentageMultiplier, float64(periods))
}

// PresentValue discounts a future cash flow back to the present at the
// given annual rate. Year 0 or a zero rate returns the cash flow as is.
func PresentValue(cashFlow, discountRate float64, year int) float64 {
	if year <= 0 || discountRate == 0 {
		return cashFlow
	}
	return cashFlow / CompoundFactor(discountRate, year)
}

// CombineGrowthRates multiplies two percentage growth rates into a single
// combined percentage rate: (1+a/100)*(1+b/100)-1, expressed in percent.
func CombineGrowthRates(a, b float64) float64 {
	factor := (1.0 + a/constants.PercentageMultiplier) * (1.0 + b/constants.PercentageMultiplier)
	return (factor - 1.0) * constants.PercentageMultiplier
}
