// Package loans provides the amortization solvers: payment, principal, term and
// interest rate from the other three quantities, and the payment schedule.
package loans

import (
	"errors"
	"fmt"

	"github.com/iwvelando/amortize/pkg/constants"
)

var (
	// ErrInvalidDomain indicates inputs outside the domain of a formula, such
	// as a payment that does not cover the monthly interest.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrNumericDivergence indicates the rate search exhausted its precision
	// refinement rounds without matching the payment.
	ErrNumericDivergence = errors.New("numeric divergence")
)

// Terms holds the four mutually dependent quantities of a fixed rate loan.
type Terms struct {
	Principal  float64 `yaml:"principal"`
	AnnualRate float64 `yaml:"annualRate"` // percent, e.g. 6.125
	TermMonths int     `yaml:"termMonths"`
	Payment    float64 `yaml:"payment"`
}

// Validate checks that all four quantities are inside their domains.
func (t Terms) Validate() error {
	if t.Principal <= 0 {
		return fmt.Errorf("principal must be positive, got %.2f: %w", t.Principal, ErrInvalidDomain)
	}
	if t.Payment <= 0 {
		return fmt.Errorf("payment must be positive, got %.2f: %w", t.Payment, ErrInvalidDomain)
	}
	if t.AnnualRate < 0 {
		return fmt.Errorf("interest rate must not be negative, got %.3f: %w", t.AnnualRate, ErrInvalidDomain)
	}
	if t.TermMonths < 1 {
		return fmt.Errorf("term must be at least one month, got %d: %w", t.TermMonths, ErrInvalidDomain)
	}
	return nil
}

// TotalPayments returns payment * term, the nominal amount repaid.
func (t Terms) TotalPayments() float64 {
	return t.Payment * float64(t.TermMonths)
}

// MonthlyRate converts an annual percentage rate into the fractional monthly
// rate used by every formula in this package.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / constants.MonthlyRateDivisor
}
