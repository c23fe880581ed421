package bond

import (
	"time"

	"github.com/meenmo/bondrisk/valuation"
)

// DefaultNotional is the face amount used when Terms.Notional is zero.
const DefaultNotional = 100.0

// Terms are the contractual fields of a fixed-coupon bond.
//
// A zero Maturity or FirstCoupon, a non-positive Frequency or a missing
// CouponRate means the field was not provided by the reference data.
type Terms struct {
	Maturity    time.Time
	FirstCoupon time.Time
	// CouponRate is the annual coupon in percent (e.g. 2.5 for 2.5%).
	CouponRate valuation.Value
	// Frequency is coupons per year (1 = annual, 2 = semi-annual).
	Frequency int
	Notional  float64
}

func (t Terms) notional() float64 {
	if t.Notional == 0 {
		return DefaultNotional
	}
	return t.Notional
}

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are per Terms.Notional (price-per-100 with the default notional).
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Schedule is the list of future cashflows of a bond, in strictly
// increasing date order. Principal is only paid on the last entry.
type Schedule []Cashflow

// Maturity returns the date of the last cashflow, or the zero time.
func (s Schedule) Maturity() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// Amounts returns the total amount of each cashflow.
func (s Schedule) Amounts() []float64 {
	out := make([]float64, len(s))
	for i, cf := range s {
		out[i] = cf.Amount()
	}
	return out
}

// Times returns the year fraction of each cashflow from the valuation date.
func (s Schedule) Times(ctx valuation.Context) []float64 {
	out := make([]float64, len(s))
	for i, cf := range s {
		out[i] = ctx.YearFraction(cf.Date)
	}
	return out
}
