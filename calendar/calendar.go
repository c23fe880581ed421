package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET   CalendarID = "TARGET"
	Weekends CalendarID = "WEEKENDS"
)

// Parse maps a configured calendar name to its ID. Empty selects TARGET.
func Parse(name string) (CalendarID, error) {
	switch CalendarID(strings.ToUpper(strings.TrimSpace(name))) {
	case "", TARGET:
		return TARGET, nil
	case Weekends:
		return Weekends, nil
	default:
		return "", fmt.Errorf("unknown calendar %q", name)
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case TARGET:
		return isTargetHoliday(t)
	default:
		return false
	}
}

// isTargetHoliday covers the TARGET2 closing days: New Year's Day, Good
// Friday, Easter Monday, Labour Day, Christmas Day and 26 December.
func isTargetHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case m == time.January && d == 1,
		m == time.May && d == 1,
		m == time.December && (d == 25 || d == 26):
		return true
	}
	easter := EasterSunday(y)
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Equal(easter.AddDate(0, 0, -2)) || day.Equal(easter.AddDate(0, 0, 1))
}

// EasterSunday returns the Gregorian Easter Sunday of year.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustPreceding rolls t back to the nearest business day on or before it.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// PreviousBusinessDay returns the last business day strictly before t.
func PreviousBusinessDay(cal CalendarID, t time.Time) time.Time {
	return AddBusinessDays(cal, t, -1)
}
