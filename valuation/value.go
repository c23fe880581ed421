package valuation

import (
	"math"
	"strconv"
)

// Value is a float64 that may be missing.
//
// The zero Value is missing. Non-finite numbers are never stored: Some(NaN)
// and Some(±Inf) yield a missing Value.
type Value struct {
	v     float64
	valid bool
}

// Missing is the missing Value.
var Missing = Value{}

// Some wraps x. NaN and infinities become Missing.
func Some(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Missing
	}
	return Value{v: x, valid: true}
}

// FromOK wraps a comma-ok pair.
func FromOK(x float64, ok bool) Value {
	if !ok {
		return Missing
	}
	return Some(x)
}

// Get returns the number and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.v, v.valid
}

// Valid reports whether v holds a number.
func (v Value) Valid() bool {
	return v.valid
}

// Float64 returns the number, or def when missing.
func (v Value) Float64(def float64) float64 {
	if !v.valid {
		return def
	}
	return v.v
}

// Sub returns v - w, missing when either side is missing.
func (v Value) Sub(w Value) Value {
	if !v.valid || !w.valid {
		return Missing
	}
	return Some(v.v - w.v)
}

// String formats v with full precision, or "" when missing.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes a missing Value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.v, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Missing
		return nil
	}
	x, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*v = Some(x)
	return nil
}
