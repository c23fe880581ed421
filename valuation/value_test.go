package valuation

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestValue_Missing(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if Some(x).Valid() {
			t.Fatalf("Some(%v) should be missing", x)
		}
	}
	if v := FromOK(2, false); v.Valid() {
		t.Fatalf("FromOK with !ok should be missing")
	}
	if v, ok := Some(0).Get(); !ok || v != 0 {
		t.Fatalf("zero is a value, got %v %v", v, ok)
	}
	if Missing.Float64(-1) != -1 || Some(2.5).Float64(-1) != 2.5 {
		t.Fatalf("Float64 default handling")
	}
	if Missing.String() != "" || Some(0.031).String() != "0.031" {
		t.Fatalf("String: %q %q", Missing.String(), Some(0.031).String())
	}
}

func TestValue_Sub(t *testing.T) {
	t.Parallel()

	if v, ok := Some(0.05).Sub(Some(0.03)).Get(); !ok || math.Abs(v-0.02) > 1e-15 {
		t.Fatalf("Sub: got %v %v", v, ok)
	}
	if Some(1).Sub(Missing).Valid() || Missing.Sub(Some(1)).Valid() {
		t.Fatalf("Sub with a missing side must be missing")
	}
}

func TestValue_JSON(t *testing.T) {
	t.Parallel()

	type row struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}
	b, err := json.Marshal(row{A: Some(1.25), B: Some(math.NaN())})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"a":1.25,"b":null}` {
		t.Fatalf("Marshal: got %s", b)
	}

	r := row{A: Some(9), B: Some(9)}
	if err := json.Unmarshal([]byte(`{"a":null,"b":-0.5}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.A.Valid() {
		t.Fatalf("null should decode as missing, got %s", r.A)
	}
	if v, ok := r.B.Get(); !ok || v != -0.5 {
		t.Fatalf("number: got %v %v", v, ok)
	}
	if err := json.Unmarshal([]byte(`{"a":"x"}`), &r); err == nil {
		t.Fatalf("expected error for a string")
	}
}

func TestContext_YearFraction(t *testing.T) {
	t.Parallel()

	v := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	d := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	if got := New(v).YearFraction(d); got != 1 {
		t.Fatalf("ACT/365: got %v", got)
	}
	if got := New(v).WithBasis(360).YearFraction(d); got != 365.0/360.0 {
		t.Fatalf("ACT/360: got %v", got)
	}
	if got := (Context{Date: v}).YearFraction(d); got != 1 {
		t.Fatalf("zero basis should default to %d: got %v", DefaultBasis, got)
	}
	if got := New(v).YearFraction(v.AddDate(0, 0, -73)); got != -0.2 {
		t.Fatalf("past dates are negative: got %v", got)
	}
}
