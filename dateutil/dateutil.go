// Package dateutil provides calendar arithmetic on ISO-8601 date strings.
// All functions are pure; dates are handled at day granularity in UTC.
package dateutil

import (
	"fmt"
	"time"
)

// ISOLayout is the wire format for dates throughout the application.
const ISOLayout = "2006-01-02"

// ParseError reports a string that could not be interpreted as a calendar date.
type ParseError struct {
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ParseISO parses a YYYY-MM-DD string into a UTC midnight time.
// Out-of-range components (month 13, Feb 30) are rejected, not normalized.
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Cause: err}
	}
	return t, nil
}

// FormatISO renders a time as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ValidDate reports whether year/month/day name a real calendar date,
// accounting for month lengths and leap years.
func ValidDate(year, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= DaysInMonth(year, month)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextMonth steps year/month forward by one month, wrapping December
// into January of the following year.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PrevMonth steps year/month back by one month, wrapping January into
// December of the preceding year.
func PrevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// SameMonth reports whether the ISO date string falls in the given
// year and month. Malformed dates never match.
func SameMonth(date string, year, month int) bool {
	t, err := ParseISO(date)
	if err != nil {
		return false
	}
	return t.Year() == year && int(t.Month()) == month
}
