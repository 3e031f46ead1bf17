package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CalculateDueDate returns the last second (23:59:59) of the given day in loc.
func CalculateDueDate(year, month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)
}

// DaysElapsed returns the whole days between since and now, or 0 when since is not in the past.
func DaysElapsed(since, now time.Time) int {
	if !since.Before(now) {
		return 0
	}
	return int(now.Sub(since).Hours() / 24)
}

// FormatPeriod renders a billing period as YYYY-MM.
func FormatPeriod(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParsePeriod parses a YYYY-MM period string.
func ParsePeriod(s string) (month, year int, err error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("period %q must have the form YYYY-MM", s)
	}
	return int(t.Month()), t.Year(), nil
}

// FileExtension returns the lower-cased extension of name without the leading dot.
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// SumDecimals adds up all values.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
