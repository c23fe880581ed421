package bonds

import (
	"strings"
	"time"

	"github.com/meenmo/bondrisk/bond"
	"github.com/meenmo/bondrisk/valuation"
)

// Reference mirrors one row of the bond reference universe. Dates that
// could not be parsed are zero; numeric fields that could not be parsed are
// missing.
type Reference struct {
	ISIN     string
	Currency string
	// CouponRate is the annual coupon in percent.
	CouponRate        valuation.Value
	Frequency         int
	Maturity          time.Time
	FirstCoupon       time.Time
	PenultimateCoupon time.Time
	IssueDate         time.Time
	NextCallDate      time.Time
	// StaticPrice is the reference price used when no market price exists
	// for the valuation date.
	StaticPrice valuation.Value
}

// Terms converts the reference row into the fields the cashflow scheduler needs.
func (r Reference) Terms(notional float64) bond.Terms {
	return bond.Terms{
		Maturity:    r.Maturity,
		FirstCoupon: r.FirstCoupon,
		CouponRate:  r.CouponRate,
		Frequency:   r.Frequency,
		Notional:    notional,
	}
}

// TimeToMaturity returns ACT/basis years from the valuation date to maturity.
func (r Reference) TimeToMaturity(ctx valuation.Context) valuation.Value {
	if r.Maturity.IsZero() {
		return valuation.Missing
	}
	return valuation.Some(ctx.YearFraction(r.Maturity))
}

// Filter selects the bonds to value.
type Filter struct {
	// Currency keeps only bonds in this currency. Empty keeps every currency.
	Currency string
}

// Keep reports whether r passes the filter: matching currency and a
// maturity strictly after the valuation date.
func (f Filter) Keep(r Reference, ctx valuation.Context) bool {
	if f.Currency != "" && !strings.EqualFold(strings.TrimSpace(r.Currency), f.Currency) {
		return false
	}
	ttm, ok := r.TimeToMaturity(ctx).Get()
	return ok && ttm > 0
}

// Select returns the references kept by f, preserving order.
func Select(refs []Reference, f Filter, ctx valuation.Context) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, r := range refs {
		if f.Keep(r, ctx) {
			out = append(out, r)
		}
	}
	return out
}
