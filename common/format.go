package common

import (
	"time"

	"github.com/shopspring/decimal"
)

// Layouts shared by statements and exports.
const (
	DateTimeLayout        = "02/01/2006 15:04:05"
	DisplayDateTimeLayout = "02 Jan 2006, 15:04:05"
)

// FormatAmount renders amount with exactly two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatDateTime renders t as day/month/year hour:minute:second. Zero times render empty.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func FormatDateTimeForDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateTimeLayout)
}
