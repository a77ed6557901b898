// Package cmd implements the amortize command line: the interactive console
// and one-shot solver subcommands.
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/internal/config"
	"github.com/iwvelando/amortize/internal/console"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the persistent flags shared by every command.
type options struct {
	configFile   string
	logLevel     string
	outputFormat string
}

// session is what a command runs with once configuration and logging are set up.
type session struct {
	conf         *config.Configuration
	logger       *zap.Logger
	calc         *calculator.Calculator
	outputFormat string
}

// NewRootCmd builds the amortize command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "amortize",
		Short: "Loan amortization calculator",
		Long: `amortize solves a fixed rate loan for one unknown quantity given the
other three and prints its month by month amortization schedule.

Without a subcommand an interactive console is started:
  1 / P   - Calculate payment size
  2 / L   - Calculate loan size
  3 / N   - Calculate number of payments
  4 / I   - Calculate interest rate
  Q       - Quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		fmt.Sprintf("path to configuration file (default: ./%s if present)", constants.DefaultConfigFile))
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, yaml")

	root.AddCommand(
		newSolveCmd(opts, calculator.Payment),
		newSolveCmd(opts, calculator.Principal),
		newSolveCmd(opts, calculator.Term),
		newSolveCmd(opts, calculator.Rate),
		newScheduleCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the configuration, applies the flag overrides and builds the logger.
func (o *options) load(interactive bool) (*session, error) {
	var (
		conf *config.Configuration
		err  error
	)
	if o.configFile != "" {
		conf, err = config.LoadConfiguration(o.configFile)
	} else {
		conf, err = config.LoadOptionalConfiguration(constants.DefaultConfigFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Determine output format (CLI override takes precedence over config)
	if o.outputFormat != "" {
		conf.Output.Format = o.outputFormat
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel, interactive)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cmd.load"),
		)
	}

	return &session{
		conf:         conf,
		logger:       logger,
		calc:         calculator.NewCalculator(logger, conf),
		outputFormat: conf.Output.Format,
	}, nil
}

func runConsole(opts *options) error {
	sess, err := opts.load(true)
	if err != nil {
		return err
	}
	defer func() {
		_ = sess.logger.Sync()
	}()

	program := tea.NewProgram(console.New(sess.calc, sess.logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		sess.logger.Error("console failed",
			zap.String("op", "cmd.runConsole"),
			zap.Error(err),
		)
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}
