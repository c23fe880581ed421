// Package config loads the engine settings from defaults, an optional YAML
// file and BONDRISK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/meenmo/bondrisk/bond"
	"github.com/meenmo/bondrisk/calendar"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/rootfind"
	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

// EnvPrefix prefixes every environment override, e.g. BONDRISK_VALUATION_DATE.
const EnvPrefix = "BONDRISK"

// Config is the root configuration.
type Config struct {
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	Bond      BondConfig      `mapstructure:"bond"      yaml:"bond"`
	Solver    SolverConfig    `mapstructure:"solver"    yaml:"solver"`
	Source    string          `mapstructure:"source"    yaml:"source"` // "csv" or "postgres"
	Data      DataConfig      `mapstructure:"data"      yaml:"data"`
	Postgres  PostgresConfig  `mapstructure:"postgres"  yaml:"postgres"`
	Workers   int             `mapstructure:"workers"   yaml:"workers"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

type ValuationConfig struct {
	Date     string `mapstructure:"date"      yaml:"date"` // YYYY-MM-DD, empty for the previous business day
	DayCount string `mapstructure:"day_count" yaml:"day_count"`
	Calendar string `mapstructure:"calendar"  yaml:"calendar"`
}

type BondConfig struct {
	Notional float64 `mapstructure:"notional" yaml:"notional"`
	Currency string  `mapstructure:"currency" yaml:"currency"`
}

type SolverConfig struct {
	Lower         float64 `mapstructure:"lower"          yaml:"lower"`
	Upper         float64 `mapstructure:"upper"          yaml:"upper"`
	Tolerance     float64 `mapstructure:"tolerance"      yaml:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
}

type DataConfig struct {
	Bonds  string `mapstructure:"bonds"  yaml:"bonds"`
	Curve  string `mapstructure:"curve"  yaml:"curve"`
	Prices string `mapstructure:"prices" yaml:"prices"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "json" or "csv"
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration. With an empty path it looks for
// bondrisk.yaml in the working directory and ./config, and silently uses
// defaults when none exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	return Read(New(), path)
}

// Read is Load on a prepared viper instance, typically one with
// command-line flags bound on top of the defaults.
func Read(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bondrisk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Decode(v)
}

// New returns a viper instance with defaults and environment overrides
// installed. Callers bind command-line flags to it before decoding.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Decode unmarshals v and validates the result.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("valuation.date", "")
	v.SetDefault("valuation.day_count", "ACT/365")
	v.SetDefault("valuation.calendar", string(calendar.TARGET))

	v.SetDefault("bond.notional", 100.0)
	v.SetDefault("bond.currency", "EUR")

	def := bond.YieldSettings()
	v.SetDefault("solver.lower", def.Lower)
	v.SetDefault("solver.upper", def.Upper)
	v.SetDefault("solver.tolerance", def.Tolerance)
	v.SetDefault("solver.max_iterations", def.MaxIterations)

	v.SetDefault("source", "csv")
	v.SetDefault("data.bonds", "")
	v.SetDefault("data.curve", "")
	v.SetDefault("data.prices", "")
	v.SetDefault("postgres.dsn", "")

	v.SetDefault("workers", 0)
	v.SetDefault("output.format", "json")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	switch c.Source {
	case "csv", "postgres":
	default:
		return fmt.Errorf("config: source must be csv or postgres, got %q", c.Source)
	}
	switch c.Output.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("config: output.format must be json or csv, got %q", c.Output.Format)
	}
	if c.Bond.Notional <= 0 {
		return fmt.Errorf("config: bond.notional must be positive, got %v", c.Bond.Notional)
	}
	if _, err := utils.BasisFor(c.Valuation.DayCount); err != nil {
		return fmt.Errorf("config: valuation.day_count: %w", err)
	}
	if _, err := calendar.Parse(c.Valuation.Calendar); err != nil {
		return fmt.Errorf("config: valuation.calendar: %w", err)
	}
	if err := c.SolverSettings().Validate(); err != nil {
		return fmt.Errorf("config: solver: %w", err)
	}
	return nil
}

// SolverSettings returns the yield bracket and stopping rules.
func (c *Config) SolverSettings() rootfind.Settings {
	return rootfind.Settings{
		Lower:         c.Solver.Lower,
		Upper:         c.Solver.Upper,
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

// Filter returns the universe filter.
func (c *Config) Filter() bonds.Filter {
	return bonds.Filter{Currency: strings.TrimSpace(c.Bond.Currency)}
}

// ValuationContext resolves the valuation date and day-count basis. An empty
// date resolves to the business day before now on the configured calendar.
func (c *Config) ValuationContext(now time.Time) (valuation.Context, error) {
	basis, err := utils.BasisFor(c.Valuation.DayCount)
	if err != nil {
		return valuation.Context{}, err
	}
	if c.Valuation.Date != "" {
		d, err := utils.ParseDate(c.Valuation.Date)
		if err != nil {
			return valuation.Context{}, fmt.Errorf("valuation.date: %w", err)
		}
		return valuation.New(d).WithBasis(basis), nil
	}
	cal, err := calendar.Parse(c.Valuation.Calendar)
	if err != nil {
		return valuation.Context{}, err
	}
	d := calendar.PreviousBusinessDay(cal, utils.Midnight(now))
	return valuation.New(d).WithBasis(basis), nil
}
