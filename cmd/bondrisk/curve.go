package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

type curveQuote struct {
	Date           string          `json:"date"`
	T              float64         `json:"t"`
	DiscountFactor float64         `json:"discount_factor"`
	ZeroRate       valuation.Value `json:"zero_rate"`
}

func newCurveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve --date d [--date d ...]",
		Short: "Print discount factor and zero rate of the curve at dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, _ := cmd.Flags().GetStringSlice("date")
			if len(dates) == 0 {
				return fmt.Errorf("at least one --date is required")
			}
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

			crv, err := p.curve.Curve(ctx, vctx)
			if err != nil {
				return fmt.Errorf("load curve: %w", err)
			}

			out := make([]curveQuote, 0, len(dates))
			for _, s := range dates {
				d, err := utils.ParseDate(s)
				if err != nil {
					return err
				}
				out = append(out, curveQuote{
					Date:           d.Format(utils.LayoutISO),
					T:              vctx.YearFraction(d),
					DiscountFactor: crv.DF(vctx, d),
					ZeroRate:       valuation.FromOK(crv.ZeroRate(vctx, d)),
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringSlice("date", nil, "date to quote (YYYY-MM-DD or DD/MM/YYYY), repeatable")
	cmd.Flags().String("source", "", "market data source: csv or postgres")
	cmd.Flags().String("curve", "", "discount curve file (csv source)")
	cmd.Flags().String("dsn", "", "postgres connection string (postgres source)")
	return cmd
}
