package utils

import (
	"fmt"
	"strings"
	"time"
)

// ActBasis returns ACT/basis: whole calendar days from start to end divided by basis.
func ActBasis(start, end time.Time, basis int) float64 {
	return float64(DaysBetween(start, end)) / float64(basis)
}

// BasisFor maps an ACT/x day count name to its denominator.
// Supported conventions: ACT/360, ACT/365, ACT/365F, ACT/366
func BasisFor(convention string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(convention)) {
	case "ACT/360":
		return 360, nil
	case "ACT/365", "ACT/365F", "":
		return 365, nil
	case "ACT/366":
		return 366, nil
	default:
		return 0, fmt.Errorf("unsupported day count %q (only ACT/basis conventions)", convention)
	}
}
