package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/mathutil"
)

// AnnuityPayment is the unrounded level payment that amortizes principal over
// termMonths at the fractional monthly rate. It is the forward model shared by
// PaymentFromPrincipal and the rate search.
//
// (1+r)^n is evaluated as exp(n*log1p(r)) and (1+r)^n-1 as expm1(n*log1p(r)) so
// the tiny rates tried by a deep rate search keep their full precision.
func AnnuityPayment(principal float64, termMonths int, monthlyRate float64) float64 {
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	growth := math.Expm1(float64(termMonths) * math.Log1p(monthlyRate))
	if math.IsInf(growth, 1) {
		// Interest-only limit of the formula.
		return principal * monthlyRate
	}
	return principal * monthlyRate * (growth + 1) / growth
}

// PaymentFromPrincipal calculates the monthly payment for a loan, rounded up
// to the next cent so the loan is never under-amortized over the term.
func PaymentFromPrincipal(principal float64, termMonths int, annualRate float64) (float64, error) {
	if err := checkDomain(principal, termMonths, annualRate); err != nil {
		return 0, err
	}
	return mathutil.Ceil(AnnuityPayment(principal, termMonths, MonthlyRate(annualRate))), nil
}

// PrincipalFromPayment calculates the loan size a monthly payment can carry,
// rounded to the nearest cent.
func PrincipalFromPayment(payment float64, termMonths int, annualRate float64) (float64, error) {
	if err := checkDomain(payment, termMonths, annualRate); err != nil {
		return 0, err
	}

	r := MonthlyRate(annualRate)
	if r == 0 {
		return mathutil.Round(payment * float64(termMonths)), nil
	}
	growth := math.Expm1(float64(termMonths) * math.Log1p(r))
	return mathutil.Round(payment * growth / (r * (growth + 1))), nil
}

// TermFromPayment calculates the number of monthly payments needed to repay
// principal. The payment must exceed the monthly interest on principal, and
// the resulting term must fit in math.MaxInt32 months.
func TermFromPayment(payment, principal, annualRate float64) (int, error) {
	if payment <= 0 {
		return 0, fmt.Errorf("payment must be positive, got %.2f: %w", payment, ErrInvalidDomain)
	}
	if err := checkDomain(principal, 1, annualRate); err != nil {
		return 0, err
	}

	r := MonthlyRate(annualRate)
	if r == 0 {
		return wholeMonths(principal/payment, payment, principal)
	}

	interest := principal * r
	if payment <= interest {
		return 0, fmt.Errorf("payment %.2f does not exceed monthly interest %.2f: %w",
			payment, interest, ErrInvalidDomain)
	}
	months := (math.Log(payment) - math.Log(payment-interest)) / math.Log1p(r)
	return wholeMonths(months, payment, principal)
}

// wholeMonths rounds a fractional term up to whole months, refusing terms
// too long to be represented.
func wholeMonths(months, payment, principal float64) (int, error) {
	months = math.Ceil(months - constants.CeilingEpsilon)
	if months > math.MaxInt32 {
		return 0, fmt.Errorf("payment %.2f needs %.0f months to repay %.2f: %w",
			payment, months, principal, ErrInvalidDomain)
	}
	return int(months), nil
}

// MinimumPayment returns the smallest payment, in whole cents, that still
// reduces the balance: the interest-only payment plus one cent.
func MinimumPayment(principal, annualRate float64) float64 {
	return mathutil.Round(principal*MonthlyRate(annualRate) + constants.CurrencyTolerance)
}

func checkDomain(amount float64, termMonths int, annualRate float64) error {
	switch {
	case amount <= 0:
		return fmt.Errorf("amount must be positive, got %.2f: %w", amount, ErrInvalidDomain)
	case termMonths < 1:
		return fmt.Errorf("term must be at least one month, got %d: %w", termMonths, ErrInvalidDomain)
	case annualRate < 0:
		return fmt.Errorf("interest rate must not be negative, got %.3f: %w", annualRate, ErrInvalidDomain)
	}
	return nil
}
