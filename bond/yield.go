package bond

import (
	"errors"
	"fmt"
	"math"

	"github.com/meenmo/bondrisk/rootfind"
	"github.com/meenmo/bondrisk/valuation"
)

// ErrEmptySchedule is returned by analytics that need at least one cashflow.
var ErrEmptySchedule = errors.New("empty cashflow schedule")

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
)

// YieldSettings returns the yield-to-maturity bracket [-5%, 50%] with its
// tolerance and iteration cap. Callers pass it (or an override) explicitly
// to SolveYield.
func YieldSettings() rootfind.Settings {
	return rootfind.Settings{
		Lower:         yieldFloor,
		Upper:         yieldCeiling,
		Tolerance:     yieldTolerance,
		MaxIterations: yieldMaxIter,
	}
}

// SolveYield returns the yield y such that PriceGivenYield(y) equals
// marketPrice, found with Brent's method on settings' bracket.
//
// An empty schedule returns ErrEmptySchedule without solving. A price
// outside the range spanned by the bracket returns rootfind.ErrNoBracket.
func SolveYield(marketPrice float64, s Schedule, ctx valuation.Context, settings rootfind.Settings) (float64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("SolveYield: %w", ErrEmptySchedule)
	}
	if math.IsNaN(marketPrice) || math.IsInf(marketPrice, 0) {
		return 0, fmt.Errorf("SolveYield: market price %g is not finite", marketPrice)
	}
	if settings.Lower <= -1 {
		return 0, fmt.Errorf("SolveYield: %w: lower bound %g must be above -100%%", rootfind.ErrInvalidSettings, settings.Lower)
	}

	amounts := s.Amounts()
	ts := s.Times(ctx)
	f := func(y float64) float64 {
		return pvAtYield(y, amounts, ts) - marketPrice
	}

	res, err := rootfind.Brent(f, settings)
	if err != nil {
		return 0, fmt.Errorf("SolveYield: price %g: %w", marketPrice, err)
	}
	return res.Root, nil
}
