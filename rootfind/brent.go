// Package rootfind solves f(x) = 0 on a bracket known to contain a sign change.
package rootfind

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBracket is returned when f has the same sign at both ends of the bracket.
	ErrNoBracket = errors.New("root not bracketed")
	// ErrNoConvergence is returned when the iteration cap is reached.
	ErrNoConvergence = errors.New("root finder did not converge")
	// ErrInvalidSettings is returned for an empty bracket, non-positive tolerance or iteration cap.
	ErrInvalidSettings = errors.New("invalid root finder settings")
)

// Settings are the bracket and stopping rules for a solve. There are no
// hidden defaults: every field must be set.
type Settings struct {
	// Lower and Upper bound the search interval.
	Lower float64
	Upper float64
	// Tolerance is the absolute tolerance on x.
	Tolerance float64
	// MaxIterations caps the number of function evaluations after the two
	// bracket endpoints.
	MaxIterations int
}

// Validate checks that s describes a usable bracket.
func (s Settings) Validate() error {
	switch {
	case math.IsNaN(s.Lower) || math.IsNaN(s.Upper) || math.IsInf(s.Lower, 0) || math.IsInf(s.Upper, 0):
		return fmt.Errorf("%w: bracket [%g, %g] must be finite", ErrInvalidSettings, s.Lower, s.Upper)
	case !(s.Lower < s.Upper):
		return fmt.Errorf("%w: lower %g must be below upper %g", ErrInvalidSettings, s.Lower, s.Upper)
	case !(s.Tolerance > 0):
		return fmt.Errorf("%w: tolerance %g must be positive", ErrInvalidSettings, s.Tolerance)
	case s.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidSettings, s.MaxIterations)
	}
	return nil
}

// Result is a converged root.
type Result struct {
	Root       float64
	Iterations int
}

const machEps = 2.220446049250313e-16

// Brent finds a zero of f in [s.Lower, s.Upper] with Brent's method
// (inverse quadratic interpolation, secant and bisection steps).
//
// f must change sign across the bracket, otherwise ErrNoBracket is returned
// without iterating. The loop is bounded by s.MaxIterations; on exhaustion the
// last iterate is returned together with ErrNoConvergence.
func Brent(f func(float64) float64, s Settings) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	a, b := s.Lower, s.Upper
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return Result{}, fmt.Errorf("%w: f is undefined at the bracket ends", ErrNoBracket)
	}
	if fa == 0 {
		return Result{Root: a}, nil
	}
	if fb == 0 {
		return Result{Root: b}, nil
	}
	if (fa > 0) == (fb > 0) {
		return Result{}, fmt.Errorf("%w: f(%g)=%g and f(%g)=%g have the same sign", ErrNoBracket, a, fa, b, fb)
	}

	c, fc := b, fb
	var d, e float64

	for iter := 1; iter <= s.MaxIterations; iter++ {
		if (fb > 0) == (fc > 0) {
			// b and c on the same side: reset c to the other end.
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*machEps*math.Abs(b) + 0.5*s.Tolerance
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || fb == 0 {
			return Result{Root: b, Iterations: iter}, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			var p, q float64
			ratio := fb / fa
			if a == c {
				// secant
				p = 2 * xm * ratio
				q = 1 - ratio
			} else {
				// inverse quadratic interpolation
				qa := fa / fc
				r := fb / fc
				p = ratio * (2*xm*qa*(qa-r) - (b-a)*(r-1))
				q = (qa - 1) * (r - 1) * (ratio - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb = f(b)
		if math.IsNaN(fb) {
			return Result{Root: b, Iterations: iter}, fmt.Errorf("%w: f undefined at %g", ErrNoConvergence, b)
		}
	}

	return Result{Root: b, Iterations: s.MaxIterations},
		fmt.Errorf("%w after %d iterations", ErrNoConvergence, s.MaxIterations)
}
