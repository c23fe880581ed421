package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Columns is the CSV header, in JSON field names.
var Columns = []string{
	"isin", "ttm_years", "market_price", "price_source",
	"ytm", "risk_free_rate", "spread",
	"macaulay_duration", "modified_duration", "convexity", "model_price",
}

// WriteJSON writes rows as an indented JSON array. Missing measures are null.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes rows with a header line. Missing measures are empty cells.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.ISIN, r.TTMYears.String(), r.MarketPrice.String(), string(r.PriceSource),
			r.YTM.String(), r.RiskFreeRate.String(), r.Spread.String(),
			r.MacaulayDuration.String(), r.ModifiedDuration.String(), r.Convexity.String(), r.ModelPrice.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format ("json" or "csv").
func Write(w io.Writer, rows []Row, format string) error {
	switch format {
	case "json", "":
		return WriteJSON(w, rows)
	case "csv":
		return WriteCSV(w, rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
