package csvfile

import (
	"fmt"
	"io"

	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/valuation"
)

// LoadCurvePoints reads the curve file. Rows with an unparsable date are
// skipped; non-numeric discount factors and zero rates are missing.
func LoadCurvePoints(r io.Reader) ([]curve.Point, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("LoadCurvePoints: %w", err)
	}
	if err := t.require(ColCurveDate, ColDiscount); err != nil {
		return nil, fmt.Errorf("LoadCurvePoints: %w", err)
	}

	points := make([]curve.Point, 0, len(t.rows))
	for _, row := range t.rows {
		d := parseDate(t.cell(row, ColCurveDate))
		if d.IsZero() {
			continue
		}
		points = append(points, curve.Point{
			Date:           d,
			DiscountFactor: parseNumber(t.cell(row, ColDiscount)),
			ZeroRate:       parseNumber(t.cell(row, ColZeroRate)),
		})
	}
	return points, nil
}

// LoadCurve reads the curve file and builds the curve for vctx.
func LoadCurve(r io.Reader, vctx valuation.Context) (*curve.Curve, error) {
	points, err := LoadCurvePoints(r)
	if err != nil {
		return nil, err
	}
	crv, err := curve.New(vctx, points)
	if err != nil {
		return nil, fmt.Errorf("LoadCurve: %w", err)
	}
	return crv, nil
}
