package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/loans"
)

// ErrInvalidInput indicates a user supplied value that is malformed or out of
// range. Interactive callers reprompt on it.
var ErrInvalidInput = errors.New("invalid input")

// ParseAmount parses a money or rate value typed by a user. A leading dollar
// sign, a trailing percent sign and thousands separators are accepted.
func ParseAmount(input string) (float64, error) {
	cleaned := strings.TrimSpace(input)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%q is not a number: %w", input, ErrInvalidInput)
	}
	return value, nil
}

// ParseMonths parses a whole number of monthly payments typed by a user.
func ParseMonths(input string) (int, error) {
	months, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of months: %w", input, ErrInvalidInput)
	}
	return months, nil
}

// ValidateLoanSize checks that the amount of the loan is positive.
func ValidateLoanSize(loanSize float64) error {
	if loanSize <= 0 {
		return fmt.Errorf("loan size must be a positive number, got %.2f: %w", loanSize, ErrInvalidInput)
	}
	return nil
}

// ValidatePaymentSize checks that the monthly payment is positive.
func ValidatePaymentSize(payment float64) error {
	if payment <= 0 {
		return fmt.Errorf("monthly payment must be greater than 0, got %.2f: %w", payment, ErrInvalidInput)
	}
	return nil
}

// ValidateInterestRate checks that the annual interest rate is not negative.
func ValidateInterestRate(annualRate float64) error {
	if annualRate < 0 {
		return fmt.Errorf("annual interest rate must be >= 0, got %.3f: %w", annualRate, ErrInvalidInput)
	}
	return nil
}

// ValidateTermMonths checks that the number of payments is between 1 and maxMonths.
func ValidateTermMonths(months, maxMonths int) error {
	if months < 1 || months > maxMonths {
		return fmt.Errorf("number of payments must be between 1 and %d, got %d: %w", maxMonths, months, ErrInvalidInput)
	}
	return nil
}

// ValidateMinimumPayment checks that a payment reduces the balance of the loan,
// i.e. that it is at least the interest-only payment plus one cent.
func ValidateMinimumPayment(payment, principal, annualRate float64) error {
	minimum := loans.MinimumPayment(principal, annualRate)
	if payment < minimum {
		return fmt.Errorf("minimum payment size is %.2f, got %.2f: %w", minimum, payment, ErrInvalidInput)
	}
	return nil
}

// ValidatePayoffTerm checks that payment repays principal within maxMonths.
func ValidatePayoffTerm(payment, principal, annualRate float64, maxMonths int) error {
	months, err := loans.TermFromPayment(payment, principal, annualRate)
	if err == nil && months <= maxMonths {
		return nil
	}
	return fmt.Errorf("payment %.2f does not repay %.2f within %d months; enter a larger monthly payment: %w",
		payment, principal, maxMonths, ErrInvalidInput)
}

// RateTermBounds returns the range of terms accepted when solving for the
// interest rate. The term must be long enough for payment to cover principal
// without interest and no longer than maxMonths; payments close to the loan
// size get a shorter upper bound.
func RateTermBounds(principal, payment float64, maxMonths int) (int, int, error) {
	minMonths := int(math.Ceil(principal/payment - constants.CeilingEpsilon))
	if minMonths > maxMonths {
		return 0, 0, fmt.Errorf("payment %.2f needs %d months to repay %.2f, more than %d; enter a larger monthly payment: %w",
			payment, minMonths, principal, maxMonths, ErrInvalidInput)
	}

	upper := maxMonths
	switch {
	case payment >= principal:
		upper = minMonths * constants.MonthsPerYear
	case payment >= principal*constants.NearFullPaymentRatio:
		upper = maxMonths / 2
	}
	return minMonths, upper, nil
}

// ValidateRateTerm checks that months lies within the bounds from RateTermBounds.
func ValidateRateTerm(months, minMonths, maxMonths int) error {
	if months < minMonths || months > maxMonths {
		return fmt.Errorf("number of payments must be between %d and %d, got %d: %w",
			minMonths, maxMonths, months, ErrInvalidInput)
	}
	return nil
}
