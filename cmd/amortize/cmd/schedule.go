package cmd

import (
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/spf13/cobra"
)

func newScheduleCmd(opts *options) *cobra.Command {
	flags := &loanFlags{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization table of a fully specified loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.load(false)
			if err != nil {
				return err
			}
			defer func() {
				_ = sess.logger.Sync()
			}()

			flags.table = true
			terms := calculator.Normalize(flags.terms())
			if err := terms.Validate(); err != nil {
				return err
			}
			return sess.emit(cmd, flags, terms)
		},
	}
	flags.register(cmd, 0)
	return cmd
}
