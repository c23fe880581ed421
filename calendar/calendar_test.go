package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSunday(t *testing.T) {
	t.Parallel()

	want := map[int]time.Time{
		2019: date(2019, 4, 21),
		2024: date(2024, 3, 31),
		2025: date(2025, 4, 20),
		2026: date(2026, 4, 5),
		2038: date(2038, 4, 25),
	}
	for y, w := range want {
		if got := EasterSunday(y); !got.Equal(w) {
			t.Fatalf("easter %d: got %s want %s", y, got.Format("2006-01-02"), w.Format("2006-01-02"))
		}
	}
}

func TestIsBusinessDay_TARGET(t *testing.T) {
	t.Parallel()

	closed := []time.Time{
		date(2025, 1, 1),
		date(2025, 4, 18), // Good Friday
		date(2025, 4, 21), // Easter Monday
		date(2025, 5, 1),
		date(2025, 12, 25),
		date(2025, 12, 26),
		date(2025, 10, 4), // Saturday
	}
	for _, d := range closed {
		if IsBusinessDay(TARGET, d) {
			t.Fatalf("%s should be closed", d.Format("2006-01-02"))
		}
	}
	if !IsBusinessDay(TARGET, date(2025, 10, 1)) {
		t.Fatalf("2025-10-01 is a business day")
	}
	if !IsBusinessDay(Weekends, date(2025, 12, 25)) {
		t.Fatalf("weekend-only calendar has no holidays")
	}
}

func TestPreviousBusinessDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want time.Time
	}{
		{date(2025, 10, 2), date(2025, 10, 1)},
		{date(2025, 10, 6), date(2025, 10, 3)},   // Monday -> Friday
		{date(2025, 4, 22), date(2025, 4, 17)},   // over Easter
		{date(2026, 1, 2), date(2025, 12, 31)},   // over New Year
		{date(2025, 12, 29), date(2025, 12, 24)}, // over Christmas and the weekend
	}
	for _, tc := range cases {
		if got := PreviousBusinessDay(TARGET, tc.in); !got.Equal(tc.want) {
			t.Fatalf("%s: got %s want %s", tc.in.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
	if got := AdjustPreceding(TARGET, date(2025, 10, 5)); !got.Equal(date(2025, 10, 3)) {
		t.Fatalf("AdjustPreceding: got %s", got.Format("2006-01-02"))
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]CalendarID{"": TARGET, "target": TARGET, " weekends ": Weekends} {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Fatalf("Parse(%q): got %q %v", in, got, err)
		}
	}
	if _, err := Parse("KRW"); err == nil {
		t.Fatalf("expected error for unknown calendar")
	}
}
