// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Ceil rounds a value up to the next cent. Values within CeilingEpsilon of a
// whole cent are treated as that cent.
func Ceil(val float64) float64 {
	return math.Ceil(val*constants.DecimalPrecision-constants.CeilingEpsilon) / constants.DecimalPrecision
}

// RoundToFraction returns the multiple of 1/denominator nearest to val,
// e.g. RoundToFraction(6.07, 8) == 6.125. Halves round away from zero.
func RoundToFraction(val float64, denominator int) float64 {
	d := float64(denominator)
	return math.Round(val*d) / d
}

// WithinTolerance checks if two values are within a specified tolerance,
// bounds included.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
