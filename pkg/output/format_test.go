package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/amortize/pkg/loans"
	"gopkg.in/yaml.v3"
)

func buildSchedule(t *testing.T, principal, payment, rate float64, months int) loans.Schedule {
	t.Helper()
	schedule, err := loans.BuildSchedule(principal, payment, rate, months)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	return schedule
}

func TestWriteScheduleText(t *testing.T) {
	schedule := buildSchedule(t, 300, 100, 0, 3)

	var buf bytes.Buffer
	if err := WriteScheduleText(&buf, schedule); err != nil {
		t.Fatalf("WriteScheduleText() error = %v", err)
	}

	expected := "Amortization Table for a: $300.00 loan at: 0.000% interest for 3 months\n\n" +
		"|  Month     | Payments | Principal Paid | Interest Paid | Loan Balance |\n" +
		"\n    1       $      100.00   $      100.00   $        0.00   $      200.00" +
		"\n    2       $      100.00   $      100.00   $        0.00   $      100.00" +
		"\n    3       $      100.00   $      100.00   $        0.00   $        0.00" +
		"\n"
	if buf.String() != expected {
		t.Errorf("WriteScheduleText() output mismatch\ngot:\n%q\nexpected:\n%q", buf.String(), expected)
	}
}

func TestWriteScheduleTextPrintsRoundedRate(t *testing.T) {
	schedule := buildSchedule(t, 10000, 304.22, 6.1, 36)

	var buf bytes.Buffer
	if err := WriteScheduleText(&buf, schedule); err != nil {
		t.Fatalf("WriteScheduleText() error = %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "Amortization Table for a: $10000.00 loan at: 6.125% interest for 36 months\n") {
		t.Errorf("WriteScheduleText() header = %q", strings.SplitN(output, "\n", 2)[0])
	}
	if lines := strings.Count(output, "\n"); lines != 4+36 {
		t.Errorf("WriteScheduleText() wrote %d newlines, expected %d", lines, 4+36)
	}
}

func TestWriteSummary(t *testing.T) {
	terms := loans.Terms{Principal: 10000, AnnualRate: 6.125, TermMonths: 38, Payment: 289.5}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, terms); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	output := buf.String()

	expectedParts := []string{
		"Loan amount               : $10,000.00",
		"Monthly payment size      : $289.50",
		"Number of monthly payments: 38 (3 Years, 2 Months)",
		"Total payments            : $11,001.00",
		"The interest rate is:       6.125%",
		"(6 1/8)% rounded to nearest 1/8th%",
	}
	for _, part := range expectedParts {
		if !strings.Contains(output, part) {
			t.Errorf("WriteSummary() missing %q in output:\n%s", part, output)
		}
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	schedule := buildSchedule(t, 300, 100, 0, 3)

	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, schedule); err != nil {
		t.Fatalf("WriteScheduleCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("WriteScheduleCSV() wrote %d lines, expected 4", len(lines))
	}
	if lines[0] != "month,payment,principal,interest,balance" {
		t.Errorf("WriteScheduleCSV() header = %q", lines[0])
	}
	if lines[1] != "1,100.00,100.00,0.00,200.00" {
		t.Errorf("WriteScheduleCSV() first row = %q", lines[1])
	}
	if lines[3] != "3,100.00,100.00,0.00,0.00" {
		t.Errorf("WriteScheduleCSV() last row = %q", lines[3])
	}
}

func TestWriteReportYAML(t *testing.T) {
	terms := loans.Terms{Principal: 10000, AnnualRate: 6, TermMonths: 36, Payment: 304.22}
	schedule := buildSchedule(t, terms.Principal, terms.Payment, terms.AnnualRate, terms.TermMonths)

	var buf bytes.Buffer
	if err := WriteReportYAML(&buf, terms, schedule); err != nil {
		t.Fatalf("WriteReportYAML() error = %v", err)
	}

	var decoded struct {
		Terms struct {
			Principal  float64 `yaml:"principal"`
			AnnualRate float64 `yaml:"annualRate"`
			TermMonths int     `yaml:"termMonths"`
			Payment    float64 `yaml:"payment"`
		} `yaml:"terms"`
		Totals struct {
			Payments float64 `yaml:"payments"`
		} `yaml:"totals"`
		Schedule []struct {
			Month   int     `yaml:"month"`
			Payment float64 `yaml:"payment"`
			Balance float64 `yaml:"balance"`
		} `yaml:"schedule"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}

	if decoded.Terms.Principal != 10000 || decoded.Terms.TermMonths != 36 || decoded.Terms.Payment != 304.22 {
		t.Errorf("decoded terms = %+v", decoded.Terms)
	}
	if len(decoded.Schedule) != 36 {
		t.Fatalf("decoded %d schedule rows, expected 36", len(decoded.Schedule))
	}
	last := decoded.Schedule[35]
	if last.Month != 36 || last.Payment != 304.18 || last.Balance != 0 {
		t.Errorf("decoded final row = %+v", last)
	}
	if decoded.Totals.Payments != schedule.TotalPaid().InexactFloat64() {
		t.Errorf("decoded total payments = %v, expected %v", decoded.Totals.Payments, schedule.TotalPaid())
	}
}
