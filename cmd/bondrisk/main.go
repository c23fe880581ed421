// Command bondrisk values fixed-coupon bonds against a discount curve and
// reports yield, spread, duration and convexity per bond.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meenmo/bondrisk/config"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "logging.level",
	"valuation-date": "valuation.date",
	"format":         "output.format",
	"source":         "source",
	"bonds":          "data.bonds",
	"curve":          "data.curve",
	"prices":         "data.prices",
	"dsn":            "postgres.dsn",
	"currency":       "bond.currency",
	"workers":        "workers",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bondrisk",
		Short:         "Fixed-coupon bond valuation and risk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "config file path (default: ./bondrisk.yaml if present)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().String("valuation-date", "", "valuation date YYYY-MM-DD (default: previous business day)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newYieldCmd(a))
	root.AddCommand(newCurveCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	v := config.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Read(v, path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(c config.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	logger.SetLevel(level)
	switch strings.ToLower(c.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("logging.format must be text or json, got %q", c.Format)
	}
	return logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bondrisk %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
