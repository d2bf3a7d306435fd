package timeline

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// PositionForDate maps a calendar date to a horizontal offset relative to the
// visible window start. Dates outside the window yield off-screen (possibly
// negative) offsets; clipping is the caller's job.
func PositionForDate(date, visibleStart time.Time, dayWidth int) int {
	return dayWidth * domain.DaysBetween(visibleStart, date)
}

// DateForPosition is the inverse of PositionForDate. The offset is rounded to
// the nearest whole day and floored at the window start.
func DateForPosition(px int, visibleStart time.Time, dayWidth int) time.Time {
	days := DeltaDays(px, dayWidth)
	if days < 0 {
		days = 0
	}
	return domain.AddDays(visibleStart, days)
}

// DeltaDays converts a horizontal distance into a whole number of days,
// rounding halves up: +half a day is 1, -half a day is 0.
func DeltaDays(dx, dayWidth int) int {
	if dayWidth <= 0 {
		dayWidth = 1
	}
	num, den := 2*dx+dayWidth, 2*dayWidth
	q := num / den
	if num%den != 0 && num < 0 {
		q--
	}
	return q
}

// BarSpan returns the offset and width of an inclusive date range. A range
// whose start equals its end is one day wide.
func BarSpan(r domain.DateRange, visibleStart time.Time, dayWidth int) (x, width int) {
	x = PositionForDate(r.Start, visibleStart, dayWidth)
	width = r.Days() * dayWidth
	if width < dayWidth {
		width = dayWidth
	}
	return x, width
}

// Window is the visible date interval (inclusive on both ends).
type Window struct {
	Start time.Time
	End   time.Time
}

// VisibleWindow derives the visible interval from a focus month: from the
// first day of the month m.Back months before it to the last day of the month
// m.Ahead months after it.
func VisibleWindow(focus time.Time, m WindowMargin) Window {
	first := domain.FirstOfMonth(focus)
	start := first.AddDate(0, -m.Back, 0)
	end := first.AddDate(0, m.Ahead+1, -1)
	return Window{Start: start, End: end}
}

// Days returns the number of days in the window.
func (w Window) Days() int {
	return domain.DaysBetween(w.Start, w.End) + 1
}

// Width returns the window's total width at dayWidth.
func (w Window) Width(dayWidth int) int {
	return w.Days() * dayWidth
}

// Contains reports whether d lies within the window.
func (w Window) Contains(d time.Time) bool {
	d = domain.Day(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Overlaps reports whether any day of r is inside the window.
func (w Window) Overlaps(r domain.DateRange) bool {
	return !domain.Day(r.End).Before(w.Start) && !domain.Day(r.Start).After(w.End)
}
