package bond

import (
	"errors"
	"fmt"

	"github.com/meenmo/bondrisk/rootfind"
	"github.com/meenmo/bondrisk/valuation"
)

// ErrMissingPrice is recorded when no market price is available for the bond.
var ErrMissingPrice = errors.New("no market price")

// RiskRecord holds the valuation and risk measures of one bond. Every field
// is independently missing when its own inputs are missing or degenerate.
type RiskRecord struct {
	YTM              valuation.Value `json:"ytm"`
	RiskFreeRate     valuation.Value `json:"risk_free_rate"`
	Spread           valuation.Value `json:"spread"`
	MacaulayDuration valuation.Value `json:"macaulay_duration"`
	ModifiedDuration valuation.Value `json:"modified_duration"`
	Convexity        valuation.Value `json:"convexity"`
	ModelPrice       valuation.Value `json:"model_price"`

	// Issues lists why fields are missing. Not serialized.
	Issues []error `json:"-"`
}

// ComputeRiskRecord values one bond against the curve and its market price.
//
//   - empty schedule (missing terms, no future coupons): every field missing
//   - YTM: solved on settings' bracket; missing without a price or a root
//   - RiskFreeRate: curve zero rate at maturity; missing if maturity is not
//     after the valuation date or the curve has no zero rates
//   - Spread: YTM - RiskFreeRate when both are present
//   - durations and convexity: at the solved YTM against the market price
//   - ModelPrice: schedule discounted on the curve
//
// It never fails; failures are folded into missing fields and Issues.
func ComputeRiskRecord(terms Terms, marketPrice valuation.Value, crv DiscountCurve, ctx valuation.Context, settings rootfind.Settings) RiskRecord {
	var rec RiskRecord

	sched, err := BuildSchedule(terms, ctx)
	if err != nil {
		rec.Issues = append(rec.Issues, err)
	}
	if len(sched) == 0 {
		if err == nil {
			rec.Issues = append(rec.Issues, fmt.Errorf("ComputeRiskRecord: %w: no coupon after valuation date", ErrEmptySchedule))
		}
		return rec
	}

	if crv != nil {
		rec.ModelPrice = valuation.FromOK(ModelPrice(sched, crv, ctx))
		if ctx.YearFraction(terms.Maturity) > 0 {
			rec.RiskFreeRate = valuation.FromOK(crv.ZeroRate(ctx, terms.Maturity))
		}
		if !rec.RiskFreeRate.Valid() {
			rec.Issues = append(rec.Issues, fmt.Errorf("ComputeRiskRecord: no zero rate at maturity %s", terms.Maturity.Format("2006-01-02")))
		}
	}

	price, ok := marketPrice.Get()
	if !ok {
		rec.Issues = append(rec.Issues, fmt.Errorf("ComputeRiskRecord: %w", ErrMissingPrice))
	} else if y, err := SolveYield(price, sched, ctx, settings); err != nil {
		rec.Issues = append(rec.Issues, err)
	} else {
		rec.YTM = valuation.Some(y)
	}

	rec.Spread = rec.YTM.Sub(rec.RiskFreeRate)

	if y, ok := rec.YTM.Get(); ok {
		sens, err := DurationAndConvexity(price, sched, y, ctx)
		if err != nil {
			rec.Issues = append(rec.Issues, err)
		} else {
			rec.MacaulayDuration = valuation.Some(sens.Macaulay)
			rec.ModifiedDuration = valuation.Some(sens.Modified)
			rec.Convexity = valuation.Some(sens.Convexity)
		}
	}

	return rec
}
