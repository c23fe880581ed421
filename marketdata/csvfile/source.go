package csvfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/valuation"
)

// Source serves the three market data inputs from files on disk.
type Source struct {
	BondsPath  string
	CurvePath  string
	PricesPath string
	Filter     bonds.Filter
	Logger     logrus.FieldLogger
}

var (
	_ marketdata.BondReferenceProvider = (*Source)(nil)
	_ marketdata.CurveProvider         = (*Source)(nil)
	_ marketdata.MarketPriceProvider   = (*Source)(nil)
)

// Bonds loads and filters the reference universe.
func (s *Source) Bonds(ctx context.Context, vctx valuation.Context) ([]bonds.Reference, error) {
	f, err := os.Open(s.BondsPath)
	if err != nil {
		return nil, fmt.Errorf("open bonds file: %w", err)
	}
	defer f.Close()

	refs, err := LoadBonds(f, vctx, s.Filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.BondsPath, err)
	}
	s.logger().WithFields(logrus.Fields{
		"path":     s.BondsPath,
		"bonds":    len(refs),
		"currency": s.Filter.Currency,
	}).Debug("loaded bond universe")
	return refs, ctx.Err()
}

// Curve loads the curve pivots and builds the curve for vctx.
func (s *Source) Curve(ctx context.Context, vctx valuation.Context) (*curve.Curve, error) {
	f, err := os.Open(s.CurvePath)
	if err != nil {
		return nil, fmt.Errorf("open curve file: %w", err)
	}
	defer f.Close()

	crv, err := LoadCurve(f, vctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.CurvePath, err)
	}
	s.logger().WithFields(logrus.Fields{"path": s.CurvePath, "pivots": crv.Len()}).Debug("loaded curve")
	return crv, ctx.Err()
}

// Prices loads the price history and keeps the prices observed on date.
// Without a prices file the book is empty and every bond falls back to its
// static reference price.
func (s *Source) Prices(ctx context.Context, date time.Time) (*marketdata.PriceBook, error) {
	if s.PricesPath == "" {
		return marketdata.NewPriceBook(date, nil), nil
	}
	f, err := os.Open(s.PricesPath)
	if err != nil {
		return nil, fmt.Errorf("open prices file: %w", err)
	}
	defer f.Close()

	obs, err := LoadPriceHistory(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.PricesPath, err)
	}
	book := marketdata.NewPriceBook(date, obs)
	s.logger().WithFields(logrus.Fields{
		"path":         s.PricesPath,
		"observations": len(obs),
		"priced":       book.Len(),
		"date":         date.Format("2006-01-02"),
	}).Debug("loaded price history")
	return book, ctx.Err()
}

func (s *Source) logger() logrus.FieldLogger {
	if s.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return s.Logger
}
