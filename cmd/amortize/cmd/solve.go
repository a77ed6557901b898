package cmd

import (
	"fmt"

	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/pkg/loans"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loanFlags are the loan quantities and output switches of the one-shot commands.
type loanFlags struct {
	principal float64
	payment   float64
	rate      float64
	months    int
	table     bool
	save      string
}

func (f *loanFlags) terms() loans.Terms {
	return loans.Terms{
		Principal:  f.principal,
		AnnualRate: f.rate,
		TermMonths: f.months,
		Payment:    f.payment,
	}
}

// register adds the flags for every quantity except unknown and marks them required.
// Passing 0 registers all four.
func (f *loanFlags) register(cmd *cobra.Command, unknown calculator.Quantity) {
	flags := cmd.Flags()
	if unknown != calculator.Principal {
		flags.Float64Var(&f.principal, "principal", 0, "amount of the loan")
		_ = cmd.MarkFlagRequired("principal")
	}
	if unknown != calculator.Payment {
		flags.Float64Var(&f.payment, "payment", 0, "monthly payment")
		_ = cmd.MarkFlagRequired("payment")
	}
	if unknown != calculator.Rate {
		flags.Float64Var(&f.rate, "rate", 0, "annual interest rate in percent, e.g. 5.4")
		_ = cmd.MarkFlagRequired("rate")
	}
	if unknown != calculator.Term {
		flags.IntVar(&f.months, "months", 0, "number of monthly payments")
		_ = cmd.MarkFlagRequired("months")
	}
	flags.BoolVar(&f.table, "table", false, "print the amortization table after the summary (pretty output)")
	flags.StringVar(&f.save, "save", "", "write the amortization table to this file")
}

var solveUsage = map[calculator.Quantity]struct {
	use     string
	aliases []string
	short   string
}{
	calculator.Payment:   {"payment", nil, "Calculate the monthly payment size"},
	calculator.Principal: {"principal", []string{"loan"}, "Calculate the loan size"},
	calculator.Term:      {"term", []string{"months"}, "Calculate the number of monthly payments"},
	calculator.Rate:      {"rate", []string{"interest"}, "Calculate the annual interest rate"},
}

func newSolveCmd(opts *options, unknown calculator.Quantity) *cobra.Command {
	usage := solveUsage[unknown]
	flags := &loanFlags{}

	cmd := &cobra.Command{
		Use:     usage.use,
		Aliases: usage.aliases,
		Short:   usage.short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.load(false)
			if err != nil {
				return err
			}
			defer func() {
				_ = sess.logger.Sync()
			}()

			terms, err := sess.calc.Solve(unknown, flags.terms())
			if err != nil {
				return err
			}
			return sess.emit(cmd, flags, terms)
		},
	}
	flags.register(cmd, unknown)
	return cmd
}

// emit prints solved terms in the session output format and saves the table
// when requested.
func (s *session) emit(cmd *cobra.Command, flags *loanFlags, terms loans.Terms) error {
	if err := s.calc.Report(cmd.OutOrStdout(), s.outputFormat, terms, flags.table); err != nil {
		return err
	}
	if flags.save == "" {
		return nil
	}

	written, err := s.calc.SaveSchedule(flags.save, terms)
	if err != nil {
		s.logger.Error("failed to save schedule",
			zap.String("op", "cmd.emit"),
			zap.Error(err),
		)
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Table has been printed to file: %s\n", written)
	return nil
}
