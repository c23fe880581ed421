package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/meenmo/bondrisk/report"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Value the bond universe and write one risk row per bond",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vctx, err := a.cfg.ValuationContext(time.Now())
			if err != nil {
				return err
			}

			p, err := a.openProviders(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			refs, err := p.bonds.Bonds(ctx, vctx)
			if err != nil {
				return fmt.Errorf("load bonds: %w", err)
			}
			crv, err := p.curve.Curve(ctx, vctx)
			if err != nil {
				return fmt.Errorf("load curve: %w", err)
			}
			book, err := p.prices.Prices(ctx, vctx.Date)
			if err != nil {
				return fmt.Errorf("load prices: %w", err)
			}

			a.logger.WithFields(logrus.Fields{
				"valuation_date": vctx.Date.Format("2006-01-02"),
				"bonds":          len(refs),
				"pivots":         crv.Len(),
				"source":         a.cfg.Source,
			}).Info("inputs loaded")

			rows, err := report.Run(ctx, refs, crv, book, vctx, report.Options{
				Workers:  a.cfg.Workers,
				Notional: a.cfg.Bond.Notional,
				Settings: a.cfg.SolverSettings(),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), rows, a.cfg.Output.Format)
		},
	}
	f := cmd.Flags()
	f.String("format", "", "output format: json or csv")
	f.String("source", "", "market data source: csv or postgres")
	f.String("bonds", "", "bond universe file (csv source)")
	f.String("curve", "", "discount curve file (csv source)")
	f.String("prices", "", "price history file (csv source)")
	f.String("dsn", "", "postgres connection string (postgres source)")
	f.String("currency", "", "keep only bonds in this currency")
	f.Int("workers", 0, "concurrent valuations (0: GOMAXPROCS)")
	return cmd
}
