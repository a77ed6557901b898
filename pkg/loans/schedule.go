package loans

import (
	"fmt"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Row holds the values for a given month of the schedule.
type Row struct {
	Month     int             `yaml:"month"`
	Payment   decimal.Decimal `yaml:"payment"`
	Principal decimal.Decimal `yaml:"principal"`
	Interest  decimal.Decimal `yaml:"interest"`
	Balance   decimal.Decimal `yaml:"balance"`
}

// Schedule is a month by month amortization schedule. AnnualRate is the rate
// the schedule was computed with, already rounded to the nearest 1/8 percent.
type Schedule struct {
	Principal  decimal.Decimal
	Payment    decimal.Decimal
	AnnualRate float64
	TermMonths int
	Rows       []Row
}

// TotalPaid sums the payments of every row.
func (s Schedule) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, row := range s.Rows {
		total = total.Add(row.Payment)
	}
	return total
}

// TotalInterest sums the interest portion of every row.
func (s Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, row := range s.Rows {
		total = total.Add(row.Interest)
	}
	return total
}

// TotalPrincipal sums the principal portion of every row.
func (s Schedule) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, row := range s.Rows {
		total = total.Add(row.Principal)
	}
	return total
}

// ScheduleBuilder generates amortization schedules.
type ScheduleBuilder struct {
	logger *zap.Logger
}

// NewScheduleBuilder creates a new builder instance
func NewScheduleBuilder(logger *zap.Logger) *ScheduleBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleBuilder{logger: logger}
}

// Build creates the complete schedule for the given loan terms.
func (b *ScheduleBuilder) Build(terms Terms) (Schedule, error) {
	if err := terms.Validate(); err != nil {
		return Schedule{}, err
	}
	if terms.TermMonths > constants.MaxTermMonths {
		return Schedule{}, fmt.Errorf("schedule of %d months exceeds %d months: %w",
			terms.TermMonths, constants.MaxTermMonths, ErrInvalidDomain)
	}

	rate := mathutil.RoundToFraction(terms.AnnualRate, constants.RateFraction)
	annualRate := decimal.NewFromFloat(rate)
	divisor := decimal.NewFromFloat(constants.MonthlyRateDivisor)

	schedule := Schedule{
		Principal:  decimal.NewFromFloat(terms.Principal).Round(constants.CurrencyPlaces),
		Payment:    decimal.NewFromFloat(terms.Payment).Round(constants.CurrencyPlaces),
		AnnualRate: rate,
		TermMonths: terms.TermMonths,
		Rows:       make([]Row, 0, terms.TermMonths),
	}

	balance := schedule.Principal
	for month := 1; month <= terms.TermMonths; month++ {
		payment := schedule.Payment
		interest := balance.Mul(annualRate).Div(divisor).Round(constants.CurrencyPlaces)
		principal := payment.Sub(interest)
		if principal.IsNegative() {
			return Schedule{}, fmt.Errorf("payment %s does not cover interest %s in month %d: %w",
				payment.StringFixed(constants.CurrencyPlaces), interest.StringFixed(constants.CurrencyPlaces),
				month, ErrInvalidDomain)
		}
		balance = balance.Sub(principal)

		if month == terms.TermMonths && !balance.IsZero() {
			// Fold the accumulated rounding drift into the last payment.
			b.logger.Debug(fmt.Sprintf("adjusting final payment by %s", balance.StringFixed(constants.CurrencyPlaces)),
				zap.String("op", "loans.ScheduleBuilder.Build"),
				zap.Int("month", month),
			)
			payment = payment.Add(balance)
			principal = principal.Add(balance)
			balance = decimal.Zero
		}

		schedule.Rows = append(schedule.Rows, Row{
			Month:     month,
			Payment:   payment,
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}

	return schedule, nil
}

// BuildSchedule creates the amortization schedule of a loan without logging.
func BuildSchedule(principal, payment, annualRate float64, termMonths int) (Schedule, error) {
	return NewScheduleBuilder(nil).Build(Terms{
		Principal:  principal,
		AnnualRate: annualRate,
		TermMonths: termMonths,
		Payment:    payment,
	})
}
