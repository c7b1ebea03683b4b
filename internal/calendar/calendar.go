// Package calendar provides the pure date arithmetic used by the
// seasonality pipeline: weekday naming, day-of-period positions,
// parity and leap-year tests, and the two trading-week boundary
// functions (Monday-anchored and Thursday-expiry-anchored).
//
// All functions are pure and operate on civil dates; callers are
// expected to pass dates normalized to midnight UTC.
package calendar

import "time"

// WeekdayName returns the English weekday name for the date
// (Sunday through Saturday).
func WeekdayName(date time.Time) string {
	return date.Weekday().String()
}

// DayOfMonth returns the 1-based calendar day of the month.
func DayOfMonth(date time.Time) int {
	return date.Day()
}

// DayOfYear returns the 1-based calendar day of the year.
func DayOfYear(date time.Time) int {
	return date.YearDay()
}

// IsLeapYear reports whether the year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// IsEven reports whether n is even. Used uniformly for the
// day/week/month parity flags so every parity field agrees on the
// treatment of zero and negative values.
func IsEven(n int) bool {
	return n%2 == 0
}

// MondayWeekStart returns the Monday that starts the week containing
// the date. Sunday rolls back six days; every other weekday rolls
// back to the preceding (or same) Monday. The result is always a
// Monday and never after the input date.
func MondayWeekStart(date time.Time) time.Time {
	offset := int(date.Weekday()) - 1
	if date.Weekday() == time.Sunday {
		offset = 6
	}
	return date.AddDate(0, 0, -offset)
}

// ExpiryWeekEnd returns the Thursday that closes the trading week the
// date belongs to, following the weekly derivatives settlement
// convention: a Friday bar settles into the following week, so its
// expiry is the next Thursday six days ahead. A Thursday input must
// map to the next Thursday, not itself; the modulo arithmetic yields
// zero there, so it is special-cased rather than left to fall through.
func ExpiryWeekEnd(date time.Time) time.Time {
	if date.Weekday() == time.Thursday {
		return date.AddDate(0, 0, 7)
	}
	if date.Weekday() == time.Friday {
		return date.AddDate(0, 0, 6)
	}
	days := (int(time.Thursday) - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, days)
}
