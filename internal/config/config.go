// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/proptools/buyrent-analyzer/internal/params"
	"github.com/proptools/buyrent-analyzer/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for buyrent-analyzer.
type Configuration struct {
	Parameters params.ParameterSet `mapstructure:"parameters" yaml:"parameters"`
	Logging    LoggingConfig       `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig        `mapstructure:"output" yaml:"output,omitempty"`
	Server     ServerConfig        `mapstructure:"server" yaml:"server,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"output_file" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// ServerConfig holds the HTTP API options.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address,omitempty"`
	RedisAddress    string `mapstructure:"redis_address" yaml:"redisAddress,omitempty"`
	MaxRequestBytes int64  `mapstructure:"max_request_bytes" yaml:"maxRequestBytes,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Fields absent from the file keep the documented
// parameter defaults; environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	configuration := DefaultConfiguration()
	if err := v.Unmarshal(configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return configuration, nil
}

// DefaultConfiguration returns a configuration with every parameter at
// its documented default. Unmarshalling a config file on top of it is
// the single place where missing values resolve to defaults.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Parameters: params.Defaults(),
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Output:     OutputConfig{Format: constants.OutputFormatPretty},
		Server: ServerConfig{
			Address:         constants.DefaultServerAddress,
			MaxRequestBytes: constants.DefaultMaxRequestBytes,
		},
	}
}

// ValidateConfiguration checks the loaded configuration and returns any
// warnings found. Warnings do not prevent an analysis from running.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	warnings = append(warnings, conf.Parameters.Validate()...)

	switch conf.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unrecognized logging level %q, defaulting to info", conf.Logging.Level))
	}

	switch conf.Logging.Format {
	case "", "json", "console":
	default:
		warnings = append(warnings, fmt.Sprintf("unrecognized logging format %q, defaulting to console", conf.Logging.Format))
	}

	if conf.Output.Format != "" &&
		conf.Output.Format != constants.OutputFormatPretty &&
		conf.Output.Format != constants.OutputFormatCSV {
		warnings = append(warnings, fmt.Sprintf("unrecognized output format %q, defaulting to %s",
			conf.Output.Format, constants.OutputFormatPretty))
	}

	if conf.Parameters.LoanTerm > conf.Parameters.AnalysisPeriod {
		warnings = append(warnings, fmt.Sprintf("loan term (%d years) extends beyond the analysis period (%d years); the remaining balance is settled from sale proceeds",
			conf.Parameters.LoanTerm, conf.Parameters.AnalysisPeriod))
	}

	return warnings
}
