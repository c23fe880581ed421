package curve

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/meenmo/bondrisk/valuation"
)

var (
	// ErrNoDiscountFactors is returned when no pivot carries a discount factor.
	ErrNoDiscountFactors = errors.New("curve has no discount factor pivots")
)

// Point is a curve pivot. ZeroRate is in percent and may be missing.
//
// T is the ACT/basis year fraction from the valuation date, clamped at 0; it
// is filled in by New.
type Point struct {
	Date           time.Time
	T              float64
	DiscountFactor valuation.Value
	ZeroRate       valuation.Value
}

// Curve interpolates discount factors and zero rates linearly in T with flat
// extrapolation beyond the first and last pivots.
type Curve struct {
	points []Point
	df     line
	zero   line
}

// New builds a curve from pivots. Pivots are sorted by date and T is computed
// relative to ctx.Date. Discount-factor and zero-rate lines are fitted on the
// pivots where each quantity is present.
func New(ctx valuation.Context, points []Point) (*Curve, error) {
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Date.Before(pts[j].Date)
	})

	var dfT, dfV, zT, zV []float64
	for i := range pts {
		t := ctx.YearFraction(pts[i].Date)
		if t < 0 {
			t = 0
		}
		pts[i].T = t

		if v, ok := pts[i].DiscountFactor.Get(); ok {
			dfT = append(dfT, t)
			dfV = append(dfV, v)
		}
		if v, ok := pts[i].ZeroRate.Get(); ok {
			zT = append(zT, t)
			zV = append(zV, v/100.0)
		}
	}
	if len(dfT) == 0 {
		return nil, fmt.Errorf("curve.New: %w (%d pivots)", ErrNoDiscountFactors, len(pts))
	}

	df, err := fitLine(dfT, dfV)
	if err != nil {
		return nil, fmt.Errorf("curve.New: discount factors: %w", err)
	}
	zero, err := fitLine(zT, zV)
	if err != nil {
		return nil, fmt.Errorf("curve.New: zero rates: %w", err)
	}
	return &Curve{points: pts, df: df, zero: zero}, nil
}

// DF returns the discount factor at date. Dates on or before the valuation
// date discount at exactly 1.
func (c *Curve) DF(ctx valuation.Context, date time.Time) float64 {
	t := ctx.YearFraction(date)
	if t <= 0 {
		return 1.0
	}
	return c.df.at(t)
}

// ZeroRate returns the zero rate at date as a decimal. It reports false for
// dates on or before the valuation date and when no pivot has a zero rate.
func (c *Curve) ZeroRate(ctx valuation.Context, date time.Time) (float64, bool) {
	t := ctx.YearFraction(date)
	if t <= 0 || c.zero.empty() {
		return 0, false
	}
	return c.zero.at(t), true
}

// Points returns a copy of the sorted pivots.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Len returns the number of pivots.
func (c *Curve) Len() int {
	return len(c.points)
}

// line is a piecewise linear function of T. A single pivot is a constant.
type line struct {
	n    int
	flat float64
	pl   interp.PiecewiseLinear
}

// fitLine expects ts non-decreasing. Pivots sharing a T keep the last value.
func fitLine(ts, vs []float64) (line, error) {
	var xs, ys []float64
	for i := range ts {
		if len(xs) > 0 && ts[i] == xs[len(xs)-1] {
			ys[len(ys)-1] = vs[i]
			continue
		}
		xs = append(xs, ts[i])
		ys = append(ys, vs[i])
	}

	l := line{n: len(xs)}
	switch l.n {
	case 0:
	case 1:
		l.flat = ys[0]
	default:
		if err := l.pl.Fit(xs, ys); err != nil {
			return line{}, err
		}
	}
	return l, nil
}

func (l line) empty() bool {
	return l.n == 0
}

func (l line) at(t float64) float64 {
	if l.n == 1 {
		return l.flat
	}
	return l.pl.Predict(t)
}
