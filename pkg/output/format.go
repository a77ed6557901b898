// Package output provides utilities for formatting and displaying loan results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/loans"
	"gopkg.in/yaml.v3"
)

const (
	summaryRule  = "________________________________________________________"
	scheduleHead = "|  Month     | Payments | Principal Paid | Interest Paid | Loan Balance |"
	scheduleRow  = "\n%5d       $%12.2f   $%12.2f   $%12.2f   $%12.2f"
)

// WriteScheduleText writes the schedule as the fixed width amortization table
// that is also used for saved schedule files.
func WriteScheduleText(w io.Writer, schedule loans.Schedule) error {
	if _, err := fmt.Fprintf(w, "Amortization Table for a: $%.2f loan at: %.3f%% interest for %d months\n\n",
		schedule.Principal.InexactFloat64(), schedule.AnnualRate, schedule.TermMonths); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", scheduleHead); err != nil {
		return err
	}
	for _, row := range schedule.Rows {
		if _, err := fmt.Fprintf(w, scheduleRow, row.Month,
			row.Payment.InexactFloat64(), row.Principal.InexactFloat64(),
			row.Interest.InexactFloat64(), row.Balance.InexactFloat64()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteSummary outputs a human-readable summary of the solved loan.
func WriteSummary(w io.Writer, terms loans.Terms) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", summaryRule)
	fmt.Fprintf(&b, "Loan amount               : %s\n", format.Currency(terms.Principal))
	fmt.Fprintf(&b, "Monthly payment size      : %s\n", format.Currency(terms.Payment))
	fmt.Fprintf(&b, "Number of monthly payments: %s\n", format.Term(terms.TermMonths))
	fmt.Fprintf(&b, "%s\n", summaryRule)
	fmt.Fprintf(&b, "Total payments            : %s\n", format.Currency(terms.TotalPayments()))
	fmt.Fprintf(&b, "\n\tThe interest rate is:       %s\n", format.Rate(terms.AnnualRate))
	fmt.Fprintf(&b, "\n\t(%s)%% rounded to nearest 1/%dth%%\n",
		format.RateFraction(terms.AnnualRate, constants.RateFraction), constants.RateFraction)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteScheduleCSV outputs the schedule in comma-separated value format.
func WriteScheduleCSV(w io.Writer, schedule loans.Schedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"month", "payment", "principal", "interest", "balance"}); err != nil {
		return err
	}
	for _, row := range schedule.Rows {
		record := []string{
			strconv.Itoa(row.Month),
			row.Payment.StringFixed(constants.CurrencyPlaces),
			row.Principal.StringFixed(constants.CurrencyPlaces),
			row.Interest.StringFixed(constants.CurrencyPlaces),
			row.Balance.StringFixed(constants.CurrencyPlaces),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type reportRow struct {
	Month     int     `yaml:"month"`
	Payment   float64 `yaml:"payment"`
	Principal float64 `yaml:"principal"`
	Interest  float64 `yaml:"interest"`
	Balance   float64 `yaml:"balance"`
}

type reportTotals struct {
	Payments  float64 `yaml:"payments"`
	Principal float64 `yaml:"principal"`
	Interest  float64 `yaml:"interest"`
}

type report struct {
	Terms    loans.Terms  `yaml:"terms"`
	Totals   reportTotals `yaml:"totals"`
	Schedule []reportRow  `yaml:"schedule,omitempty"`
}

// WriteReportYAML outputs the solved terms, totals and schedule as a YAML document.
func WriteReportYAML(w io.Writer, terms loans.Terms, schedule loans.Schedule) error {
	doc := report{
		Terms: terms,
		Totals: reportTotals{
			Payments:  schedule.TotalPaid().InexactFloat64(),
			Principal: schedule.TotalPrincipal().InexactFloat64(),
			Interest:  schedule.TotalInterest().InexactFloat64(),
		},
		Schedule: make([]reportRow, 0, len(schedule.Rows)),
	}
	for _, row := range schedule.Rows {
		doc.Schedule = append(doc.Schedule, reportRow{
			Month:     row.Month,
			Payment:   row.Payment.InexactFloat64(),
			Principal: row.Principal.InexactFloat64(),
			Interest:  row.Interest.InexactFloat64(),
			Balance:   row.Balance.InexactFloat64(),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return encoder.Close()
}
