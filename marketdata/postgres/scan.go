package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/utils"
	"github.com/meenmo/bondrisk/valuation"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReference(row rowScanner) (bonds.Reference, error) {
	var (
		isin, currency                            sql.NullString
		coupon, price                             sql.NullFloat64
		frequency                                 sql.NullInt64
		maturity, first, penultimate, issue, call sql.NullTime
	)
	if err := row.Scan(&isin, &currency, &coupon, &frequency, &maturity, &first, &penultimate, &issue, &call, &price); err != nil {
		return bonds.Reference{}, err
	}
	return bonds.Reference{
		ISIN:              strings.TrimSpace(isin.String),
		Currency:          strings.TrimSpace(currency.String),
		CouponRate:        nullValue(coupon),
		Frequency:         int(frequency.Int64),
		Maturity:          nullDate(maturity),
		FirstCoupon:       nullDate(first),
		PenultimateCoupon: nullDate(penultimate),
		IssueDate:         nullDate(issue),
		NextCallDate:      nullDate(call),
		StaticPrice:       nullValue(price),
	}, nil
}

func scanPoint(row rowScanner) (curve.Point, error) {
	var (
		pivot    sql.NullTime
		df, zero sql.NullFloat64
	)
	if err := row.Scan(&pivot, &df, &zero); err != nil {
		return curve.Point{}, err
	}
	return curve.Point{
		Date:           nullDate(pivot),
		DiscountFactor: nullValue(df),
		ZeroRate:       nullValue(zero),
	}, nil
}

func scanObservation(row rowScanner) (marketdata.Observation, error) {
	var o marketdata.Observation
	if err := row.Scan(&o.ISIN, &o.Date, &o.Price); err != nil {
		return marketdata.Observation{}, err
	}
	o.ISIN = strings.TrimSpace(o.ISIN)
	o.Date = utils.Midnight(o.Date)
	return o, nil
}

func nullValue(n sql.NullFloat64) valuation.Value {
	return valuation.FromOK(n.Float64, n.Valid)
}

// nullDate drops the driver's time zone so dates compare as calendar days.
func nullDate(n sql.NullTime) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return utils.Midnight(n.Time)
}
