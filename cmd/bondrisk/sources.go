package main

import (
	"context"
	"fmt"

	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/marketdata/csvfile"
	"github.com/meenmo/bondrisk/marketdata/postgres"
)

// providers bundles the three market data inputs of a run.
type providers struct {
	bonds  marketdata.BondReferenceProvider
	curve  marketdata.CurveProvider
	prices marketdata.MarketPriceProvider
	close  func() error
}

func (a *app) openProviders(ctx context.Context) (*providers, error) {
	switch a.cfg.Source {
	case "postgres":
		if a.cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres.dsn is required for source postgres")
		}
		store, err := postgres.Open(ctx, a.cfg.Postgres.DSN, a.cfg.Filter(), a.logger)
		if err != nil {
			return nil, err
		}
		return &providers{bonds: store, curve: store, prices: store, close: store.Close}, nil
	default:
		src := &csvfile.Source{
			BondsPath:  a.cfg.Data.Bonds,
			CurvePath:  a.cfg.Data.Curve,
			PricesPath: a.cfg.Data.Prices,
			Filter:     a.cfg.Filter(),
			Logger:     a.logger,
		}
		return &providers{bonds: src, curve: src, prices: src, close: func() error { return nil }}, nil
	}
}
