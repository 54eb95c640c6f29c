package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the layout used for dates in requests and scenario files
	DateLayout = "2006-01-02"

	// MonthYearLayout labels a pay cycle in the payment logs, e.g. "April, 2018"
	MonthYearLayout = "January, 2006"
)

var daysInYear = decimal.NewFromInt(365)

// DateOnly drops the time of day, keeping the calendar date in UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalendarDaysBetween counts day boundaries crossed between from and to.
// Hours within a day never add an extra day.
func CalendarDaysBetween(from, to time.Time) int {
	duration := DateOnly(to).Sub(DateOnly(from))
	return int(duration.Hours() / 24)
}

// SameDate reports whether a and b fall on the same calendar date
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// CalculateAccruedInterest returns simple daily interest on principal over the given
// number of days, rounded to 2 decimal places.
// Formula: principal * (apr / 365) * days
func CalculateAccruedInterest(principal, apr decimal.Decimal, days int) decimal.Decimal {
	interest := principal.Mul(apr).Mul(decimal.NewFromInt(int64(days))).Div(daysInYear)

	// Round to 2 decimal places
	return interest.RoundBank(2)
}

// CalculateDueDate returns the due date of the n-th monthly payment (n starts at 0)
func CalculateDueDate(startDate time.Time, monthNumber int) time.Time {
	return DateOnly(startDate).AddDate(0, monthNumber, 0)
}

// ParseDate parses a DateLayout date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate formats t with DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthYearLabel formats t as a human readable pay cycle label
func MonthYearLabel(t time.Time) string {
	return t.Format(MonthYearLayout)
}

// MinDecimal returns the smaller of a and b
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
