// Package config loads settings for the calc command from the environment.
package config

import (
	"math/big"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/calculator/internal/logging"
)

// FormatDisplay selects calculator display formatting of results.
const FormatDisplay = "display"

// Config holds all command configuration. Every variable is named with a
// CALC_ prefix, e.g. CALC_PRECISION.
type Config struct {
	Eval    EvalConfig `envconfig:"CALC"`
	Logging LogConfig  `envconfig:"CALC"`
}

// EvalConfig holds evaluator and output settings.
type EvalConfig struct {
	// Precision is the number of mantissa bits for precise evaluation, or 0
	// for float64.
	Precision uint   `envconfig:"PRECISION" default:"0"`
	Degrees   bool   `envconfig:"DEGREES" default:"false"`
	Format    string `envconfig:"FORMAT" default:"display"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"warn"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Eval: EvalConfig{
			Precision: 0,
			Degrees:   false,
			Format:    FormatDisplay,
		},
		Logging: LogConfig{
			Level:       "warn",
			Development: false,
		},
	}
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Eval.Precision > big.MaxPrec {
		result = multierror.Append(result, errors.Errorf("precision %d exceeds %d bits", c.Eval.Precision, uint(big.MaxPrec)))
	}
	if c.Eval.Format != FormatDisplay {
		if err := checkFormat(c.Eval.Format); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "format %q is neither %q nor a float format", c.Eval.Format, FormatDisplay))
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		result = multierror.Append(result, errors.Errorf("unknown log level %q", c.Logging.Level))
	}
	return result.ErrorOrNil()
}

// floatVerbs are the fmt verbs which format a float64.
const floatVerbs = "beEfFgGxXv"

// checkFormat checks that a format string has exactly one directive and that
// it formats a float64. Literal %% is allowed anywhere.
func checkFormat(format string) error {
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			continue
		}
		for i < len(format) && strings.IndexByte("+-# 0", format[i]) >= 0 {
			i++
		}
		for i < len(format) && '0' <= format[i] && format[i] <= '9' {
			i++
		}
		if i < len(format) && format[i] == '.' {
			i++
			for i < len(format) && '0' <= format[i] && format[i] <= '9' {
				i++
			}
		}
		if i >= len(format) {
			return errors.New("incomplete directive at end")
		}
		if strings.IndexByte(floatVerbs, format[i]) < 0 {
			return errors.Errorf("verb %%%c does not format numbers", format[i])
		}
		verbs++
	}
	switch verbs {
	case 0:
		return errors.New("no verb")
	case 1:
		return nil
	default:
		return errors.Errorf("%d verbs, want 1", verbs)
	}
}

// Logger returns the logger configuration.
func (c *Config) Logger() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Development = c.Logging.Development
	return cfg
}
