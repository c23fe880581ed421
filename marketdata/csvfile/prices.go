package csvfile

import (
	"fmt"
	"io"
	"time"

	"github.com/meenmo/bondrisk/marketdata"
)

// LoadPriceHistory reads a wide price history: the first column holds a
// ticker label ("XS0161488498 Corp") and every other column is a date.
// It returns one observation per priced (ISIN, date) cell. Columns whose
// header is not a date are ignored, as are NA cells.
func LoadPriceHistory(r io.Reader) ([]marketdata.Observation, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("LoadPriceHistory: %w", err)
	}
	if len(t.header) < 2 {
		return nil, fmt.Errorf("LoadPriceHistory: need a label column and at least one date column")
	}

	dates := make([]time.Time, len(t.header))
	for i := 1; i < len(t.header); i++ {
		dates[i] = parseDate(t.header[i])
	}

	var obs []marketdata.Observation
	for _, row := range t.rows {
		if len(row) == 0 {
			continue
		}
		isin := marketdata.ISINFromLabel(row[0])
		if isin == "" {
			continue
		}
		for i := 1; i < len(row) && i < len(dates); i++ {
			if dates[i].IsZero() {
				continue
			}
			p, ok := parseNumber(row[i]).Get()
			if !ok {
				continue
			}
			obs = append(obs, marketdata.Observation{ISIN: isin, Date: dates[i], Price: p})
		}
	}
	return obs, nil
}
