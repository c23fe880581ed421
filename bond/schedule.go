package bond

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

var (
	// ErrMissingTerms is returned when maturity, first coupon date, coupon
	// rate or frequency is absent. The schedule is empty.
	ErrMissingTerms = errors.New("missing bond terms")
	// ErrUnsupportedFrequency is returned when 12 is not a multiple of the
	// coupon frequency, so calendar-month stepping cannot be used.
	ErrUnsupportedFrequency = errors.New("unsupported coupon frequency")
)

// BuildSchedule generates the future cashflows of a bond.
//
// Coupon dates are stepped backwards from maturity by 12/Frequency months
// (EDATE semantics), keeping dates strictly after the valuation date and not
// before the first coupon date. Each coupon pays
// Notional*CouponRate/100/Frequency; the notional is added to the last one.
//
// Missing terms yield an empty schedule with ErrMissingTerms. A first coupon
// after maturity, or a bond with no coupon left, yields an empty schedule and
// no error.
func BuildSchedule(terms Terms, ctx valuation.Context) (Schedule, error) {
	if missing := missingTerms(terms); len(missing) > 0 {
		return nil, fmt.Errorf("BuildSchedule: %w: %s", ErrMissingTerms, strings.Join(missing, ", "))
	}
	if 12%terms.Frequency != 0 {
		return nil, fmt.Errorf("BuildSchedule: %w: %d per year does not divide 12 months", ErrUnsupportedFrequency, terms.Frequency)
	}

	months := 12 / terms.Frequency
	var dates []time.Time
	for d := terms.Maturity; d.After(ctx.Date) && !d.Before(terms.FirstCoupon); d = utils.AddMonth(d, -months) {
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, nil
	}
	utils.SortDates(dates)

	rate, _ := terms.CouponRate.Get()
	notional := terms.notional()
	coupon := notional * rate / 100.0 / float64(terms.Frequency)

	sched := make(Schedule, len(dates))
	for i, d := range dates {
		sched[i] = Cashflow{Date: d, Coupon: coupon}
	}
	sched[len(sched)-1].Principal = notional
	return sched, nil
}

func missingTerms(terms Terms) []string {
	var missing []string
	if terms.Maturity.IsZero() {
		missing = append(missing, "maturity")
	}
	if terms.FirstCoupon.IsZero() {
		missing = append(missing, "first coupon date")
	}
	if !terms.CouponRate.Valid() {
		missing = append(missing, "coupon rate")
	}
	if terms.Frequency <= 0 {
		missing = append(missing, "coupon frequency")
	}
	return missing
}
