// Package calendar is the single source of civil-date truth for the cost
// engine. All day-level arithmetic runs in a fixed UTC+7 frame so that reports
// generated at different times of day agree to the day.
package calendar

import (
	"math"
	"time"
)

// Location is the fixed UTC+7 civil calendar (WIB). It is deliberately not
// configurable: every stored date and every derived cost uses this frame.
var Location = time.FixedZone("WIB", 7*60*60)

// Today returns the current date in UTC+7, normalized to midnight.
func Today() time.Time {
	return Normalize(time.Now())
}

// Normalize converts t to the UTC+7 frame and truncates it to midnight.
func Normalize(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// DaysBetween returns the whole-day count between two dates. The difference is
// absolute, so argument order does not matter; callers that care about sign
// must validate ordering themselves. Partial days round up.
func DaysBetween(a, b time.Time) int {
	hours := Normalize(b).Sub(Normalize(a)).Hours()
	return int(math.Ceil(math.Abs(hours) / 24))
}

// StartOfMonth returns midnight on the first day of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, Location)
}

// EndOfMonth returns midnight on the last day of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DateOfMonth returns the given day-of-month within t's month, clamped to the
// month's final day (so day 31 in April resolves to April 30).
func DateOfMonth(t time.Time, day int) time.Time {
	last := EndOfMonth(t).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, Location)
}

// MonthsBetween returns the calendar-month distance from a to b. Jan 31 to
// Feb 1 is one month; negative when b precedes a's month.
func MonthsBetween(a, b time.Time) int {
	a, b = a.In(Location), b.In(Location)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// SameMonth reports whether two dates fall in the same UTC+7 calendar month.
func SameMonth(a, b time.Time) bool {
	a, b = a.In(Location), b.In(Location)
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Overlaps reports whether the closed day ranges [aStart, aEnd] and
// [bStart, bEnd] intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Normalize(aStart).After(Normalize(bEnd)) && !Normalize(bStart).After(Normalize(aEnd))
}
