package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom describes t relative to now in whole days.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := domain.DaysBetween(domain.Day(now), domain.Day(t))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// FormatRange renders an inclusive range with its length, e.g.
// "2024-01-02 → 2024-01-05 (4d)".
func FormatRange(r domain.DateRange) string {
	return fmt.Sprintf("%s %s %s %s",
		domain.FormatDate(r.Start), Dim("→"), domain.FormatDate(r.End),
		Dim(fmt.Sprintf("(%dd)", r.Days())))
}

// FormatOptionalRange is FormatRange for lots, which may be unscheduled.
func FormatOptionalRange(r *domain.DateRange) string {
	if r == nil {
		return Dim("unscheduled")
	}
	return FormatRange(*r)
}

// Percent returns part/total as a 0..1 ratio; zero totals yield zero.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(1, float64(part)/float64(total))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate cuts s to n visible runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
