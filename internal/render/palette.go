package render

import "github.com/alexanderramin/chantier/internal/timeline"

// DefaultStatusColors maps work package and intervention statuses to bar
// fills. Both status sets share names where they overlap.
var DefaultStatusColors = map[string]string{
	"pending":     "#928374",
	"planned":     "#83a598",
	"in_progress": "#fabd2f",
	"completed":   "#b8bb26",
	"delayed":     "#fb4934",
	"on_hold":     "#d3869b",
	"cancelled":   "#665c54",
}

const fallbackColor = "#a89984"

// Palette resolves bar colors. Overrides win over the defaults; an item's
// own color wins over both.
type Palette struct {
	Overrides map[string]string
}

func (p Palette) Status(status string) string {
	if c, ok := p.Overrides[status]; ok && c != "" {
		return c
	}
	if c, ok := DefaultStatusColors[status]; ok {
		return c
	}
	return fallbackColor
}

func (p Palette) Bar(b timeline.Bar) string {
	if b.Color != "" {
		return b.Color
	}
	return p.Status(b.Status)
}
