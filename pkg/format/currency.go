// Package format renders loan quantities for people: currency with thousands
// separators, rates as eighths of a percent and terms in years and months.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", mathutil.Round(amount))
}

// Rate returns an annual percentage rate with three decimals (e.g., "6.125%").
func Rate(annualRate float64) string {
	return fmt.Sprintf("%.3f%%", annualRate)
}

// RateFraction renders a rate rounded to the nearest 1/denominator percent as a
// whole number and fraction, e.g. "6 1/8" for 6.125 with denominator 8.
func RateFraction(annualRate float64, denominator int) string {
	rounded := mathutil.RoundToFraction(annualRate, denominator)
	whole := math.Floor(rounded)
	parts := int(math.Round((rounded - whole) * float64(denominator)))
	return fmt.Sprintf("%d %d/%d", int(whole), parts, denominator)
}

// Term renders a number of monthly payments with its years and months breakdown,
// e.g. "38 (3 Years, 2 Months)".
func Term(months int) string {
	return fmt.Sprintf("%d (%d Years, %d Months)",
		months, months/constants.MonthsPerYear, months%constants.MonthsPerYear)
}
