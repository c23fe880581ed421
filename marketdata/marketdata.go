// Package marketdata defines the inputs the risk engine consumes: bond
// reference data, the discount curve and market prices.
package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

// BondReferenceProvider yields the bond universe, already filtered by
// currency and future maturity, with parsed dates and integer frequency.
type BondReferenceProvider interface {
	Bonds(ctx context.Context, vctx valuation.Context) ([]bonds.Reference, error)
}

// CurveProvider yields the discount curve for the valuation date.
type CurveProvider interface {
	Curve(ctx context.Context, vctx valuation.Context) (*curve.Curve, error)
}

// MarketPriceProvider yields the observed prices on a date.
type MarketPriceProvider interface {
	Prices(ctx context.Context, date time.Time) (*PriceBook, error)
}

// Observation is one historical price point.
type Observation struct {
	ISIN  string
	Date  time.Time
	Price float64
}

// PriceSource tells where a quote came from.
type PriceSource string

const (
	SourceMarket PriceSource = "market"
	SourceStatic PriceSource = "static"
	SourceNone   PriceSource = ""
)

// Quote is the price chosen for a bond on the valuation date.
type Quote struct {
	Price  valuation.Value
	Source PriceSource
}

// PriceBook holds the prices observed on a single date, keyed by ISIN.
type PriceBook struct {
	date   time.Time
	prices map[string]float64
}

// NewPriceBook keeps the observations dated on date. Later observations
// for the same ISIN overwrite earlier ones.
func NewPriceBook(date time.Time, obs []Observation) *PriceBook {
	day := utils.Midnight(date)
	book := &PriceBook{date: day, prices: make(map[string]float64)}
	for _, o := range obs {
		if !utils.Midnight(o.Date).Equal(day) {
			continue
		}
		book.prices[normalizeISIN(o.ISIN)] = o.Price
	}
	return book
}

// Date returns the date of the book.
func (b *PriceBook) Date() time.Time {
	return b.date
}

// Len returns the number of ISINs priced on the date.
func (b *PriceBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.prices)
}

// PriceOf returns the observed price of isin.
func (b *PriceBook) PriceOf(isin string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	p, ok := b.prices[normalizeISIN(isin)]
	return p, ok
}

// Quote returns the observed price of ref, falling back to its static
// reference price when the date has no observation.
func (b *PriceBook) Quote(ref bonds.Reference) Quote {
	if p, ok := b.PriceOf(ref.ISIN); ok {
		return Quote{Price: valuation.Some(p), Source: SourceMarket}
	}
	if ref.StaticPrice.Valid() {
		return Quote{Price: ref.StaticPrice, Source: SourceStatic}
	}
	return Quote{Price: valuation.Missing, Source: SourceNone}
}

// ISINFromLabel extracts the ISIN from a ticker label such as "XS0161488498 Corp".
func ISINFromLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func normalizeISIN(isin string) string {
	return strings.ToUpper(strings.TrimSpace(isin))
}
