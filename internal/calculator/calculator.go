// Package calculator solves a loan for one unknown quantity from the other three
// and produces, renders and saves its amortization schedule.
package calculator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/loans"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/iwvelando/amortize/pkg/validation"
	"go.uber.org/zap"
)

// Quantity names the loan term being solved for.
type Quantity int

const (
	Payment Quantity = iota + 1
	Principal
	Term
	Rate
)

var quantityNames = map[Quantity]string{
	Payment:   "payment",
	Principal: "principal",
	Term:      "term",
	Rate:      "rate",
}

func (q Quantity) String() string {
	if name, ok := quantityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// Key returns the menu letter of the quantity.
func (q Quantity) Key() string {
	switch q {
	case Payment:
		return "P"
	case Principal:
		return "L"
	case Term:
		return "N"
	case Rate:
		return "I"
	}
	return ""
}

// ParseQuantity accepts a menu number, a menu letter or a name, e.g. "2", "L",
// "loan" or "principal".
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "p", "payment":
		return Payment, nil
	case "2", "l", "loan", "principal":
		return Principal, nil
	case "3", "n", "months", "term":
		return Term, nil
	case "4", "i", "interest", "rate":
		return Rate, nil
	}
	return 0, fmt.Errorf("unknown quantity %q: %w", s, validation.ErrInvalidInput)
}

// Calculator runs the loan solvers with the configured limits.
type Calculator struct {
	logger   *zap.Logger
	conf     *config.Configuration
	searcher *loans.RateSearcher
	builder  *loans.ScheduleBuilder
}

// NewCalculator creates a calculator. A nil conf selects the defaults.
func NewCalculator(logger *zap.Logger, conf *config.Configuration) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.DefaultConfiguration()
	}
	return &Calculator{
		logger:   logger,
		conf:     conf,
		searcher: loans.NewRateSearcher(logger, conf.Calculator.MaxSearchRounds),
		builder:  loans.NewScheduleBuilder(logger),
	}
}

// Config returns the configuration the calculator was created with.
func (c *Calculator) Config() *config.Configuration {
	return c.conf
}

// Normalize rounds money to the cent and the rate to the nearest 1/8 percent,
// the precision every value is entered with.
func Normalize(terms loans.Terms) loans.Terms {
	terms.Principal = mathutil.Round(terms.Principal)
	terms.Payment = mathutil.Round(terms.Payment)
	terms.AnnualRate = mathutil.RoundToFraction(terms.AnnualRate, constants.RateFraction)
	return terms
}

// Solve computes the unknown quantity from the other three fields of known and
// returns the completed terms. The field being solved for is ignored.
func (c *Calculator) Solve(unknown Quantity, known loans.Terms) (loans.Terms, error) {
	terms := Normalize(known)

	if err := c.validate(unknown, terms); err != nil {
		return loans.Terms{}, err
	}

	c.logger.Debug(fmt.Sprintf("solving for %s", unknown),
		zap.String("op", "calculator.Calculator.Solve"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("payment", terms.Payment),
		zap.Float64("rate", terms.AnnualRate),
		zap.Int("months", terms.TermMonths),
	)

	var err error
	switch unknown {
	case Payment:
		terms.Payment, err = loans.PaymentFromPrincipal(terms.Principal, terms.TermMonths, terms.AnnualRate)
	case Principal:
		terms.Principal, err = loans.PrincipalFromPayment(terms.Payment, terms.TermMonths, terms.AnnualRate)
	case Term:
		terms.TermMonths, err = loans.TermFromPayment(terms.Payment, terms.Principal, terms.AnnualRate)
	case Rate:
		var result loans.RateSearchResult
		result, err = c.searcher.Search(terms.TermMonths, terms.Principal, terms.Payment)
		terms.AnnualRate = result.AnnualRate
		c.logger.Debug("rate search finished",
			zap.String("op", "calculator.Calculator.Solve"),
			zap.Int("rounds", len(result.Rounds)),
		)
	default:
		return loans.Terms{}, fmt.Errorf("unknown quantity %d: %w", int(unknown), validation.ErrInvalidInput)
	}
	if err != nil {
		return loans.Terms{}, fmt.Errorf("failed to solve for %s: %w", unknown, err)
	}

	c.logger.Info(fmt.Sprintf("solved for %s", unknown),
		zap.String("op", "calculator.Calculator.Solve"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("payment", terms.Payment),
		zap.Float64("rate", terms.AnnualRate),
		zap.Int("months", terms.TermMonths),
	)
	return terms, nil
}

func (c *Calculator) validate(unknown Quantity, terms loans.Terms) error {
	limits := c.conf.Calculator

	if unknown != Rate {
		if err := validation.ValidateInterestRate(terms.AnnualRate); err != nil {
			return err
		}
	}
	if unknown != Principal {
		if err := validation.ValidateLoanSize(terms.Principal); err != nil {
			return err
		}
	}
	if unknown != Payment {
		if err := validation.ValidatePaymentSize(terms.Payment); err != nil {
			return err
		}
	}

	switch unknown {
	case Payment, Principal:
		return validation.ValidateTermMonths(terms.TermMonths, limits.MaxTermMonths)
	case Term:
		if err := validation.ValidateMinimumPayment(terms.Payment, terms.Principal, terms.AnnualRate); err != nil {
			return err
		}
		return validation.ValidatePayoffTerm(terms.Payment, terms.Principal, terms.AnnualRate, limits.MaxTermMonths)
	case Rate:
		minMonths, maxMonths, err := validation.RateTermBounds(terms.Principal, terms.Payment, limits.MaxRateSearchTermMonths)
		if err != nil {
			return err
		}
		return validation.ValidateRateTerm(terms.TermMonths, minMonths, maxMonths)
	}
	return nil
}

// Schedule builds the amortization schedule of solved terms.
func (c *Calculator) Schedule(terms loans.Terms) (loans.Schedule, error) {
	return c.builder.Build(terms)
}

// SaveSchedule writes the schedule text of terms to path, creating missing
// parent directories. An empty path selects the configured schedule file.
// The path written is returned.
func (c *Calculator) SaveSchedule(path string, terms loans.Terms) (string, error) {
	if path == "" {
		path = c.conf.ScheduleFile()
	}

	schedule, err := c.Schedule(terms)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create schedule directory %s: %v", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create schedule file %s: %w", path, err)
	}
	if err := output.WriteScheduleText(file, schedule); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write schedule file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close schedule file %s: %w", path, err)
	}

	c.logger.Info("schedule saved",
		zap.String("op", "calculator.Calculator.SaveSchedule"),
		zap.String("path", path),
		zap.Int("rows", len(schedule.Rows)),
	)
	return path, nil
}

// Report writes solved terms to w in the given output format. The pretty
// format prints the loan summary, followed by the schedule table when
// withSchedule is set; csv and yaml always include the schedule.
func (c *Calculator) Report(w io.Writer, format string, terms loans.Terms, withSchedule bool) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatCSV:
		schedule, err := c.Schedule(terms)
		if err != nil {
			return err
		}
		return output.WriteScheduleCSV(w, schedule)
	case constants.OutputFormatYAML:
		schedule, err := c.Schedule(terms)
		if err != nil {
			return err
		}
		return output.WriteReportYAML(w, terms, schedule)
	default:
		if err := output.WriteSummary(w, terms); err != nil {
			return err
		}
		if !withSchedule {
			return nil
		}
		schedule, err := c.Schedule(terms)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return output.WriteScheduleText(w, schedule)
	}
}
