// Package report values a bond universe against one curve and one set of
// prices and writes the resulting risk rows.
package report

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/bondrisk/bond"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/rootfind"
	"github.com/meenmo/bondrisk/valuation"
)

// Row is one bond of the report.
type Row struct {
	ISIN        string                 `json:"isin"`
	TTMYears    valuation.Value        `json:"ttm_years"`
	MarketPrice valuation.Value        `json:"market_price"`
	PriceSource marketdata.PriceSource `json:"price_source"`
	bond.RiskRecord
}

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrent valuations; 0 uses GOMAXPROCS.
	Workers  int
	Notional float64
	Settings rootfind.Settings
	Logger   logrus.FieldLogger
}

// Summary counts the outcomes of a run.
type Summary struct {
	Bonds      int
	Priced     int
	WithYield  int
	WithSpread int
}

// Run values every reference and returns one row per reference, in input
// order. Bonds are independent: a degenerate bond yields a row of missing
// measures and never stops the batch. Only cancellation of ctx fails the run.
func Run(ctx context.Context, refs []bonds.Reference, crv bond.DiscountCurve, book *marketdata.PriceBook, vctx valuation.Context, opts Options) ([]Row, error) {
	logger := opts.logger()
	rows := make([]Row, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i := range refs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = Evaluate(refs[i], crv, book, vctx, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := Summarize(rows)
	for _, r := range rows {
		for _, issue := range r.Issues {
			logger.WithFields(logrus.Fields{"isin": r.ISIN, "reason": issue.Error()}).Debug("measure missing")
		}
	}
	logger.WithFields(logrus.Fields{
		"valuation_date": vctx.Date.Format("2006-01-02"),
		"bonds":          sum.Bonds,
		"priced":         sum.Priced,
		"with_yield":     sum.WithYield,
		"with_spread":    sum.WithSpread,
	}).Info("risk report computed")
	return rows, nil
}

// Evaluate values a single bond.
func Evaluate(ref bonds.Reference, crv bond.DiscountCurve, book *marketdata.PriceBook, vctx valuation.Context, opts Options) Row {
	q := book.Quote(ref)
	notional := opts.Notional
	if notional <= 0 {
		notional = bond.DefaultNotional
	}
	return Row{
		ISIN:        ref.ISIN,
		TTMYears:    ref.TimeToMaturity(vctx),
		MarketPrice: q.Price,
		PriceSource: q.Source,
		RiskRecord:  bond.ComputeRiskRecord(ref.Terms(notional), q.Price, crv, vctx, opts.Settings),
	}
}

// Summarize counts rows with a price, a yield and a spread.
func Summarize(rows []Row) Summary {
	s := Summary{Bonds: len(rows)}
	for _, r := range rows {
		if r.MarketPrice.Valid() {
			s.Priced++
		}
		if r.YTM.Valid() {
			s.WithYield++
		}
		if r.Spread.Valid() {
			s.WithSpread++
		}
	}
	return s
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
