package bond

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/bondrisk/valuation"
)

var (
	// ErrNonPositivePrice is returned when a price used as a denominator is not positive.
	ErrNonPositivePrice = errors.New("market price must be positive")
	// ErrDegenerateYield is returned when 1+y is not positive or the result is not finite.
	ErrDegenerateYield = errors.New("degenerate yield")
)

// Sensitivities are the yield risk measures of a bond at a solved yield.
type Sensitivities struct {
	Macaulay  float64 // PV-weighted average time to cashflow, in years
	Modified  float64 // Macaulay / (1+y)
	Convexity float64
}

// DurationAndConvexity computes Macaulay duration, modified duration and
// convexity at yield y:
//
//	pv_i      = amount_i / (1+y)^t_i
//	Macaulay  = Σ t_i·pv_i / P
//	Modified  = Macaulay / (1+y)
//	Convexity = Σ t_i·(t_i+1)·pv_i / (1+y)^2 / P
//
// P must be the market price y was solved against, not the model price.
func DurationAndConvexity(marketPrice float64, s Schedule, y float64, ctx valuation.Context) (Sensitivities, error) {
	if len(s) == 0 {
		return Sensitivities{}, fmt.Errorf("DurationAndConvexity: %w", ErrEmptySchedule)
	}
	if !(marketPrice > 0) || math.IsInf(marketPrice, 0) {
		return Sensitivities{}, fmt.Errorf("DurationAndConvexity: %w (got %g)", ErrNonPositivePrice, marketPrice)
	}
	if !(1+y > 0) {
		return Sensitivities{}, fmt.Errorf("DurationAndConvexity: %w: 1+y = %g", ErrDegenerateYield, 1+y)
	}

	ts := s.Times(ctx)
	dfs := yieldDiscountFactors(y, ts)
	growth2 := (1 + y) * (1 + y)

	var weighted, curvature float64
	for i, cf := range s {
		pv := cf.Amount() * dfs[i]
		weighted += ts[i] * pv
		curvature += ts[i] * (ts[i] + 1) * pv / growth2
	}

	out := Sensitivities{
		Macaulay:  weighted / marketPrice,
		Convexity: curvature / marketPrice,
	}
	out.Modified = out.Macaulay / (1 + y)

	for _, v := range []float64{out.Macaulay, out.Modified, out.Convexity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sensitivities{}, fmt.Errorf("DurationAndConvexity: %w: non-finite result at y=%g", ErrDegenerateYield, y)
		}
	}
	return out, nil
}
