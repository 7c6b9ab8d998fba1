// Package utils holds small formatting helpers shared by the display
// surfaces.
package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// FormatPct formats a share with one decimal and a percent sign.
// e.g., 43 → "43.0%", 9.25 → "9.2%"
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatPctInt formats a whole-number percentage.
// e.g., 43 → "43%"
func FormatPctInt(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// Slug turns a title into a lowercase, hyphen-separated identifier safe
// for file names and URL fragments.
// e.g., "Primary vs Tertiary" → "primary-vs-tertiary"
func Slug(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return sb.String()
}

// FormatTimestamp renders t in UTC for page footers and logs.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("02 Jan 2006, 15:04 UTC")
}

// Bar draws a proportional block bar of at most width cells for value
// against max, used by the terminal output.
// e.g., Bar(25, 50, 10) → "█████"
func Bar(value, max float64, width int) string {
	if max <= 0 || width <= 0 || value <= 0 {
		return ""
	}
	n := int(value/max*float64(width) + 0.5)
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}
