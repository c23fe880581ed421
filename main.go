package main

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondrisk/bond"
	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/valuation"
)

func main() {
	ctx := valuation.New(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))

	// Flat 3% annually compounded ESTR-style curve on yearly pivots.
	var pivots []curve.Point
	for y := 0; y <= 6; y++ {
		d := ctx.Date.AddDate(y, 0, 0)
		p := curve.Point{Date: d, DiscountFactor: valuation.Some(math.Pow(1.03, -ctx.YearFraction(d)))}
		if y > 0 {
			p.ZeroRate = valuation.Some(3.0)
		}
		pivots = append(pivots, p)
	}
	crv, err := curve.New(ctx, pivots)
	if err != nil {
		panic(err)
	}

	terms := bond.Terms{
		Maturity:    ctx.Date.AddDate(5, 0, 0),
		FirstCoupon: ctx.Date.AddDate(1, 0, 0),
		CouponRate:  valuation.Some(5.0),
		Frequency:   1,
		Notional:    bond.DefaultNotional,
	}
	sched, err := bond.BuildSchedule(terms, ctx)
	if err != nil {
		panic(err)
	}
	price, _ := bond.ModelPrice(sched, crv, ctx)

	rec := bond.ComputeRiskRecord(terms, valuation.Some(price), crv, ctx, bond.YieldSettings())

	fmt.Printf("Model price: %.6f\n", price)
	fmt.Printf("YTM: %s\n", rec.YTM)
	fmt.Printf("Risk-free: %s\n", rec.RiskFreeRate)
	fmt.Printf("Spread: %s\n", rec.Spread)
	fmt.Printf("Macaulay: %s\n", rec.MacaulayDuration)
	fmt.Printf("Modified: %s\n", rec.ModifiedDuration)
	fmt.Printf("Convexity: %s\n", rec.Convexity)
}
