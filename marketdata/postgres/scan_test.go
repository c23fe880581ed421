package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeRow assigns its values to the scan destinations the way database/sql
// does for the Null* types used here.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		v := r.values[i]
		switch p := d.(type) {
		case *sql.NullString:
			if err := p.Scan(v); err != nil {
				return err
			}
		case *sql.NullFloat64:
			if err := p.Scan(v); err != nil {
				return err
			}
		case *sql.NullInt64:
			if err := p.Scan(v); err != nil {
				return err
			}
		case *sql.NullTime:
			if err := p.Scan(v); err != nil {
				return err
			}
		case *string:
			*p = v.(string)
		case *time.Time:
			*p = v.(time.Time)
		case *float64:
			*p = v.(float64)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanReference(t *testing.T) {
	t.Parallel()

	cet := time.FixedZone("CET", 3600)
	row := fakeRow{values: []any{
		" XS0000000001 ", "EUR", 5.0, int64(1),
		time.Date(2030, 10, 1, 0, 0, 0, 0, cet), time.Date(2026, 10, 1, 0, 0, 0, 0, cet),
		nil, nil, nil, nil,
	}}
	ref, err := scanReference(row)
	if err != nil {
		t.Fatalf("scanReference: %v", err)
	}
	if ref.ISIN != "XS0000000001" || ref.Frequency != 1 {
		t.Fatalf("unexpected reference: %+v", ref)
	}
	if !ref.Maturity.Equal(time.Date(2030, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("maturity should be a UTC calendar day, got %s", ref.Maturity)
	}
	if c, ok := ref.CouponRate.Get(); !ok || c != 5 {
		t.Fatalf("coupon: got %s", ref.CouponRate)
	}
	if ref.StaticPrice.Valid() || !ref.PenultimateCoupon.IsZero() {
		t.Fatalf("NULL columns should be missing: %+v", ref)
	}
}

func TestScanPoint(t *testing.T) {
	t.Parallel()

	p, err := scanPoint(fakeRow{values: []any{time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 0.97, nil}})
	if err != nil {
		t.Fatalf("scanPoint: %v", err)
	}
	if df, ok := p.DiscountFactor.Get(); !ok || df != 0.97 {
		t.Fatalf("discount: got %s", p.DiscountFactor)
	}
	if p.ZeroRate.Valid() {
		t.Fatalf("NULL zero rate should be missing")
	}
}

func TestScanObservation(t *testing.T) {
	t.Parallel()

	o, err := scanObservation(fakeRow{values: []any{"XS0000000001\t", time.Date(2025, 10, 1, 2, 0, 0, 0, time.FixedZone("CEST", 7200)), 101.25}})
	if err != nil {
		t.Fatalf("scanObservation: %v", err)
	}
	if o.ISIN != "XS0000000001" || o.Price != 101.25 {
		t.Fatalf("unexpected observation: %+v", o)
	}
	if !o.Date.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date should be the calendar day, got %s", o.Date)
	}

	boom := errors.New("boom")
	if _, err := scanObservation(fakeRow{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}
