package csvfile

import (
	"fmt"
	"io"

	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/valuation"
)

// LoadBonds reads the reference universe and keeps the bonds selected by
// filter. The currency filter only applies when the file has a currency
// column; bonds without a future maturity are always dropped.
func LoadBonds(r io.Reader, vctx valuation.Context, filter bonds.Filter) ([]bonds.Reference, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("LoadBonds: %w", err)
	}
	if err := t.require(ColISIN, ColMaturity); err != nil {
		return nil, fmt.Errorf("LoadBonds: %w", err)
	}
	if !t.has(ColCurrency) {
		filter.Currency = ""
	}

	refs := make([]bonds.Reference, 0, len(t.rows))
	for _, row := range t.rows {
		isin := t.cell(row, ColISIN)
		if isin == "" {
			continue
		}
		refs = append(refs, bonds.Reference{
			ISIN:              isin,
			Currency:          t.cell(row, ColCurrency),
			CouponRate:        parseNumber(t.cell(row, ColCoupon)),
			Frequency:         parseFrequency(t.cell(row, ColCouponFrequency)),
			Maturity:          parseDate(t.cell(row, ColMaturity)),
			FirstCoupon:       parseDate(t.cell(row, ColFirstCoupon)),
			PenultimateCoupon: parseDate(t.cell(row, ColPenultimateCoupon)),
			IssueDate:         parseDate(t.cell(row, ColIssueDate)),
			NextCallDate:      parseDate(t.cell(row, ColNextCallDate)),
			StaticPrice:       parseNumber(t.cell(row, ColPrice)),
		})
	}
	return bonds.Select(refs, filter, vctx), nil
}
