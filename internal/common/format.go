package common

import (
	"fmt"
	"math"
)

// FormatMoney renders a dollar amount with a magnitude suffix for large
// values (1.23T, 45.6B, 789M) and two decimals otherwise.
func FormatMoney(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatPct renders a decimal fraction as a percentage (0.035 -> "3.5%").
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatSignedPct renders an already-scaled percentage with an explicit sign
// (12.3 -> "+12.3%").
func FormatSignedPct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
