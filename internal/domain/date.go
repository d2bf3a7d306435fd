package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used for storage and transport.
const DateLayout = "2006-01-02"

// Day truncates t to a calendar date at UTC midnight. The wall-clock date of t
// is kept; the time of day and zone are dropped.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a calendar date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Day(a), Day(b)
	// Both are UTC midnights, so the difference is an exact multiple of 24h.
	return int(b.Sub(a).Hours() / 24)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// FirstOfMonth returns the first calendar day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateRange is an inclusive calendar interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the range satisfies start <= end.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Days returns the inclusive length of the range in days.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}
