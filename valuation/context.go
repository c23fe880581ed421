package valuation

import (
	"time"

	"github.com/meenmo/bondrisk/utils"
)

// DefaultBasis is the ACT/365 day-count denominator.
const DefaultBasis = 365

// Context fixes the valuation date and day-count basis for a run.
//
// It is a plain value: pass it explicitly to every operation.
type Context struct {
	Date  time.Time
	Basis int
}

// New returns a Context on date with the default ACT/365 basis.
func New(date time.Time) Context {
	return Context{Date: date, Basis: DefaultBasis}
}

// WithBasis returns a copy of c using basis as day-count denominator.
func (c Context) WithBasis(basis int) Context {
	c.Basis = basis
	return c
}

// YearFraction returns ACT/basis years from the valuation date to d.
// Negative when d is before the valuation date.
func (c Context) YearFraction(d time.Time) float64 {
	return utils.ActBasis(c.Date, d, c.basis())
}

func (c Context) basis() int {
	if c.Basis <= 0 {
		return DefaultBasis
	}
	return c.Basis
}
