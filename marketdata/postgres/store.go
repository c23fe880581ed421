// Package postgres serves bond reference data, curve pivots and price
// history from a PostgreSQL database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/meenmo/bondrisk/curve"
	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/valuation"
)

const (
	bondsQuery = `
		SELECT isin, currency, coupon, coupon_frequency, maturity, first_coupon_date,
		       penultimate_coupon_date, issue_date, next_call_date, price
		FROM bond_reference
		ORDER BY isin`

	curveQuery = `
		SELECT pivot_date, discount_factor, zero_rate
		FROM discount_curve
		WHERE curve_date = $1
		ORDER BY pivot_date`

	pricesQuery = `
		SELECT isin, price_date, price
		FROM bond_prices
		WHERE price_date = $1 AND price IS NOT NULL`
)

// Store reads market data through database/sql.
type Store struct {
	db     *sql.DB
	filter bonds.Filter
	logger logrus.FieldLogger
}

var (
	_ marketdata.BondReferenceProvider = (*Store)(nil)
	_ marketdata.CurveProvider         = (*Store)(nil)
	_ marketdata.MarketPriceProvider   = (*Store)(nil)
)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, filter bonds.Filter, logger logrus.FieldLogger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db, filter, logger), nil
}

// New wraps an open database handle.
func New(db *sql.DB, filter bonds.Filter, logger logrus.FieldLogger) *Store {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Store{db: db, filter: filter, logger: logger}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Bonds reads the reference universe and applies the store filter.
func (s *Store) Bonds(ctx context.Context, vctx valuation.Context) ([]bonds.Reference, error) {
	rows, err := s.db.QueryContext(ctx, bondsQuery)
	if err != nil {
		return nil, fmt.Errorf("query bonds: %w", err)
	}
	defer rows.Close()

	var refs []bonds.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bond: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bonds: %w", err)
	}

	kept := bonds.Select(refs, s.filter, vctx)
	s.logger.WithFields(logrus.Fields{"read": len(refs), "kept": len(kept)}).Debug("loaded bond universe")
	return kept, nil
}

// Curve reads the pivots stored for the valuation date.
func (s *Store) Curve(ctx context.Context, vctx valuation.Context) (*curve.Curve, error) {
	rows, err := s.db.QueryContext(ctx, curveQuery, vctx.Date)
	if err != nil {
		return nil, fmt.Errorf("query curve: %w", err)
	}
	defer rows.Close()

	var points []curve.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan curve pivot: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curve: %w", err)
	}

	crv, err := curve.New(vctx, points)
	if err != nil {
		return nil, fmt.Errorf("curve %s: %w", vctx.Date.Format("2006-01-02"), err)
	}
	s.logger.WithField("pivots", crv.Len()).Debug("loaded curve")
	return crv, nil
}

// Prices reads the prices observed on date.
func (s *Store) Prices(ctx context.Context, date time.Time) (*marketdata.PriceBook, error) {
	rows, err := s.db.QueryContext(ctx, pricesQuery, date)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var obs []marketdata.Observation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}

	book := marketdata.NewPriceBook(date, obs)
	s.logger.WithField("priced", book.Len()).Debug("loaded prices")
	return book, nil
}
