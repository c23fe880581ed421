// Package csvfile loads bond reference data, the discount curve and price
// history from semicolon separated flat files with DD/MM/YYYY dates.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/bondrisk/valuation"
)

// Column names of the reference universe file.
const (
	ColISIN              = "ISIN"
	ColCurrency          = "Ccy"
	ColCoupon            = "Coupon"
	ColCouponFrequency   = "Coupon Frequency"
	ColMaturity          = "Maturity"
	ColFirstCoupon       = "First Coupon Date"
	ColPenultimateCoupon = "Penultimate Coupon Date"
	ColIssueDate         = "Issue date"
	ColNextCallDate      = "Next Call Date"
	ColPrice             = "Price"
)

// Column names of the curve file.
const (
	ColCurveDate = "Date"
	ColDiscount  = "Discount"
	ColZeroRate  = "Zero Rate"
)

const dateLayout = "02/01/2006"

// naValues are read as missing.
var naValues = map[string]struct{}{
	"":     {},
	"#N/D": {},
	"#N/A": {},
	"N/A":  {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
}

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// table is a parsed file with a header index.
type table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty file")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &table{header: header, index: make(map[string]int, len(header)), rows: records[1:]}
	for i, h := range header {
		t.index[strings.TrimSpace(h)] = i
	}
	return t, nil
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// cell returns the trimmed value of col in row, or "" when absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isNA(s string) bool {
	_, ok := naValues[strings.TrimSpace(s)]
	return ok
}

// parseNumber reads a number, returning Missing for NA markers and unparsable text.
func parseNumber(s string) valuation.Value {
	if isNA(s) {
		return valuation.Missing
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return valuation.Missing
	}
	return valuation.Some(v)
}

// parseDate reads a DD/MM/YYYY date. Unparsable dates are zero.
func parseDate(s string) time.Time {
	if isNA(s) {
		return time.Time{}
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return d
}

// parseFrequency reads an integral coupon frequency; anything else is 0.
func parseFrequency(s string) int {
	v, ok := parseNumber(s).Get()
	if !ok || v != math.Trunc(v) {
		return 0
	}
	return int(v)
}
