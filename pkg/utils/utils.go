package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// WholeDaysBetween returns the number of whole calendar days from `from` to
// `to`, never negative. Same calendar day counts as 0 regardless of clock time.
func WholeDaysBetween(from, to time.Time) int {
	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)

	days := int(toDay.Sub(fromDay).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
