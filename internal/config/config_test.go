package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/testutil"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name: "Full config file",
			configPath: testutil.WriteConfig(t, `
logging:
  level: debug
  format: json
output:
  format: csv
  scheduleFile: out/table.txt
calculator:
  maxTermMonths: 480
  maxRateSearchTermMonths: 360
  maxSearchRounds: 12
`),
		},
		{
			name:       "Malformed config file",
			configPath: testutil.WriteConfig(t, "logging: [unterminated"),
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationValues(t *testing.T) {
	path := testutil.WriteConfig(t, `
logging:
  level: debug
  outputFile: logs/amortize.log
output:
  format: yaml
calculator:
  maxSearchRounds: 12
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected %q", conf.Logging.Level, "debug")
	}
	if conf.Logging.OutputFile != "logs/amortize.log" {
		t.Errorf("Logging.OutputFile = %q, expected %q", conf.Logging.OutputFile, "logs/amortize.log")
	}
	if conf.Output.Format != constants.OutputFormatYAML {
		t.Errorf("Output.Format = %q, expected %q", conf.Output.Format, constants.OutputFormatYAML)
	}
	if conf.Calculator.MaxSearchRounds != 12 {
		t.Errorf("Calculator.MaxSearchRounds = %d, expected 12", conf.Calculator.MaxSearchRounds)
	}

	// Keys absent from the file keep their defaults.
	if conf.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, expected default %q", conf.Logging.Format, "console")
	}
	if conf.Output.ScheduleFile != constants.DefaultScheduleFile {
		t.Errorf("Output.ScheduleFile = %q, expected default %q", conf.Output.ScheduleFile, constants.DefaultScheduleFile)
	}
	if conf.Calculator.MaxTermMonths != constants.MaxTermMonths {
		t.Errorf("Calculator.MaxTermMonths = %d, expected default %d", conf.Calculator.MaxTermMonths, constants.MaxTermMonths)
	}
}

func TestLoadOptionalConfiguration(t *testing.T) {
	conf, err := LoadOptionalConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptionalConfiguration() error = %v", err)
	}

	defaults := DefaultConfiguration()
	if *conf != *defaults {
		t.Errorf("LoadOptionalConfiguration() = %+v, expected defaults %+v", *conf, *defaults)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("AMORTIZE_OUTPUT_FORMAT", "csv")
	t.Setenv("AMORTIZE_CALCULATOR_MAXSEARCHROUNDS", "10")

	conf, err := LoadOptionalConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptionalConfiguration() error = %v", err)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected %q", conf.Output.Format, constants.OutputFormatCSV)
	}
	if conf.Calculator.MaxSearchRounds != 10 {
		t.Errorf("Calculator.MaxSearchRounds = %d, expected 10", conf.Calculator.MaxSearchRounds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Configuration)
		wantError bool
	}{
		{"Defaults", func(*Configuration) {}, false},
		{"Unknown output format", func(c *Configuration) { c.Output.Format = "xml" }, true},
		{"Zero max term", func(c *Configuration) { c.Calculator.MaxTermMonths = 0 }, true},
		{"Max term above the schedule limit", func(c *Configuration) { c.Calculator.MaxTermMonths = constants.MaxTermMonths + 1 }, true},
		{"Shorter max term", func(c *Configuration) {
			c.Calculator.MaxTermMonths = 480
			c.Calculator.MaxRateSearchTermMonths = 480
		}, false},
		{"Rate search term above max term", func(c *Configuration) {
			c.Calculator.MaxTermMonths = 600
			c.Calculator.MaxRateSearchTermMonths = 1200
		}, true},
		{"Zero search rounds", func(c *Configuration) { c.Calculator.MaxSearchRounds = 0 }, true},
		{"Too many search rounds", func(c *Configuration) { c.Calculator.MaxSearchRounds = 18 }, true},
		{"Extended search rounds", func(c *Configuration) { c.Calculator.MaxSearchRounds = 17 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := DefaultConfiguration()
			tt.modify(conf)
			err := conf.Validate()
			if tt.wantError && err == nil {
				t.Errorf("Validate() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := DefaultConfiguration()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("ValidateConfiguration() on defaults returned %v", warnings)
	}

	conf.Logging.Level = "verbose"
	conf.Logging.Format = "xml"
	conf.Output.ScheduleFile = ""
	conf.Calculator.MaxSearchRounds = 17

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 4 {
		t.Fatalf("ValidateConfiguration() returned %d warnings, expected 4: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "verbose") {
		t.Errorf("first warning = %q, expected it to name the logging level", warnings[0])
	}
	if conf.ScheduleFile() != constants.DefaultScheduleFile {
		t.Errorf("ScheduleFile() = %q, expected %q", conf.ScheduleFile(), constants.DefaultScheduleFile)
	}
}
