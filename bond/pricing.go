package bond

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/bondrisk/valuation"
)

// DiscountCurve provides discount factors and zero rates for valuation.
//
// ZeroRate is a decimal and reports false when the curve has no rate for
// the date.
type DiscountCurve interface {
	DF(ctx valuation.Context, date time.Time) float64
	ZeroRate(ctx valuation.Context, date time.Time) (float64, bool)
}

// ModelPrice is the present value of the schedule on the curve:
// Σ amount_i · DF(date_i). It reports false for an empty schedule.
func ModelPrice(s Schedule, crv DiscountCurve, ctx valuation.Context) (float64, bool) {
	if len(s) == 0 || crv == nil {
		return 0, false
	}
	dfs := make([]float64, len(s))
	for i, cf := range s {
		dfs[i] = crv.DF(ctx, cf.Date)
	}
	return floats.Dot(s.Amounts(), dfs), true
}

// PriceGivenYield prices the schedule at a flat annually compounded yield:
//
//	P(y) = Σ amount_i / (1+y)^t_i,   t_i = ACT/basis from the valuation date
//
// P is smooth and strictly decreasing in y for positive cashflows and y > -1.
func PriceGivenYield(y float64, s Schedule, ctx valuation.Context) float64 {
	return pvAtYield(y, s.Amounts(), s.Times(ctx))
}

func pvAtYield(y float64, amounts, ts []float64) float64 {
	return floats.Dot(amounts, yieldDiscountFactors(y, ts))
}

func yieldDiscountFactors(y float64, ts []float64) []float64 {
	dfs := make([]float64, len(ts))
	for i, t := range ts {
		dfs[i] = math.Pow(1.0+y, -t)
	}
	return dfs
}
