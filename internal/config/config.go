// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/loans"
	"github.com/iwvelando/amortize/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for amortize.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
	Calculator CalculatorConfig `yaml:"calculator,omitempty" mapstructure:"calculator"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format       string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, yaml
	ScheduleFile string `yaml:"scheduleFile,omitempty" mapstructure:"scheduleFile"`
}

// CalculatorConfig bounds the solvers.
type CalculatorConfig struct {
	MaxTermMonths           int `yaml:"maxTermMonths,omitempty" mapstructure:"maxTermMonths"`
	MaxRateSearchTermMonths int `yaml:"maxRateSearchTermMonths,omitempty" mapstructure:"maxRateSearchTermMonths"`
	MaxSearchRounds         int `yaml:"maxSearchRounds,omitempty" mapstructure:"maxSearchRounds"`
}

// DefaultConfiguration returns the configuration used when no file is present.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format:       constants.OutputFormatPretty,
			ScheduleFile: constants.DefaultScheduleFile,
		},
		Calculator: CalculatorConfig{
			MaxTermMonths:           constants.MaxTermMonths,
			MaxRateSearchTermMonths: constants.MaxRateSearchTermMonths,
			MaxSearchRounds:         constants.DefaultMaxSearchRounds,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfiguration()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.outputFile", defaults.Logging.OutputFile)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.scheduleFile", defaults.Output.ScheduleFile)
	v.SetDefault("calculator.maxTermMonths", defaults.Calculator.MaxTermMonths)
	v.SetDefault("calculator.maxRateSearchTermMonths", defaults.Calculator.MaxRateSearchTermMonths)
	v.SetDefault("calculator.maxSearchRounds", defaults.Calculator.MaxSearchRounds)

	// AMORTIZE_LOGGING_LEVEL overrides logging.level and so on.
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys missing from the file keep their defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadOptionalConfiguration behaves like LoadConfiguration but falls back to the
// defaults, still subject to environment overrides, when configPath does not exist.
func LoadOptionalConfiguration(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return decode(newViper())
	}
	return LoadConfiguration(configPath)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Validate returns an error for settings the calculator cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	calc := c.Calculator
	if calc.MaxTermMonths < 1 || calc.MaxTermMonths > constants.MaxTermMonths {
		return fmt.Errorf("calculator.maxTermMonths must be between 1 and %d, got %d",
			constants.MaxTermMonths, calc.MaxTermMonths)
	}
	if calc.MaxRateSearchTermMonths < 1 || calc.MaxRateSearchTermMonths > calc.MaxTermMonths {
		return fmt.Errorf("calculator.maxRateSearchTermMonths must be between 1 and %d, got %d",
			calc.MaxTermMonths, calc.MaxRateSearchTermMonths)
	}
	if calc.MaxSearchRounds < 1 || calc.MaxSearchRounds > loans.MaxSearchRoundsLimit {
		return fmt.Errorf("calculator.maxSearchRounds must be between 1 and %d, got %d",
			loans.MaxSearchRoundsLimit, calc.MaxSearchRounds)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging format %q", c.Logging.Format))
	}

	if c.Output.ScheduleFile == "" {
		warnings = append(warnings, fmt.Sprintf("output.scheduleFile is empty, schedules are saved to %s",
			constants.DefaultScheduleFile))
	}
	if c.Calculator.MaxSearchRounds > constants.DefaultMaxSearchRounds {
		warnings = append(warnings, fmt.Sprintf(
			"calculator.maxSearchRounds %d exceeds %d; later rounds run near the limit of float64 precision",
			c.Calculator.MaxSearchRounds, constants.DefaultMaxSearchRounds))
	}

	return warnings
}

// ScheduleFile returns the configured schedule file name or the default.
func (c *Configuration) ScheduleFile() string {
	if c.Output.ScheduleFile == "" {
		return constants.DefaultScheduleFile
	}
	return c.Output.ScheduleFile
}
