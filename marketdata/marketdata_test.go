package marketdata_test

import (
	"testing"
	"time"

	"github.com/meenmo/bondrisk/instruments/bonds"
	"github.com/meenmo/bondrisk/marketdata"
	"github.com/meenmo/bondrisk/valuation"
)

func TestPriceBook_Quote(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	book := marketdata.NewPriceBook(day, []marketdata.Observation{
		{ISIN: "XS1", Date: day.AddDate(0, 0, -1), Price: 98},
		{ISIN: "XS1", Date: day, Price: 99.5},
		{ISIN: "xs2 ", Date: day.Add(15 * time.Hour), Price: 101},
		{ISIN: "XS3", Date: day.AddDate(0, 0, -1), Price: 97},
	})
	if book.Len() != 2 {
		t.Fatalf("expected 2 prices on %s, got %d", day.Format("2006-01-02"), book.Len())
	}

	cases := []struct {
		ref    bonds.Reference
		want   float64
		source marketdata.PriceSource
	}{
		{ref: bonds.Reference{ISIN: "XS1", StaticPrice: valuation.Some(90)}, want: 99.5, source: marketdata.SourceMarket},
		{ref: bonds.Reference{ISIN: "XS2"}, want: 101, source: marketdata.SourceMarket},
		{ref: bonds.Reference{ISIN: "XS3", StaticPrice: valuation.Some(96.25)}, want: 96.25, source: marketdata.SourceStatic},
	}
	for _, tc := range cases {
		q := book.Quote(tc.ref)
		p, ok := q.Price.Get()
		if !ok || p != tc.want || q.Source != tc.source {
			t.Fatalf("%s: got %v,%v,%q want %v,%q", tc.ref.ISIN, p, ok, q.Source, tc.want, tc.source)
		}
	}

	q := book.Quote(bonds.Reference{ISIN: "XS4"})
	if q.Price.Valid() || q.Source != marketdata.SourceNone {
		t.Fatalf("expected missing quote, got %+v", q)
	}
}

func TestISINFromLabel(t *testing.T) {
	t.Parallel()

	for label, want := range map[string]string{
		"XS0161488498 Corp": "XS0161488498",
		"  DE0001102580  ":  "DE0001102580",
		"":                  "",
	} {
		if got := marketdata.ISINFromLabel(label); got != want {
			t.Fatalf("ISINFromLabel(%q) = %q want %q", label, got, want)
		}
	}
}
