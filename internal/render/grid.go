// Package render draws a timeline scene. The interactive view and the text
// snapshot paint the same cell grid; SVG export works from the scene in
// pixels.
package render

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
)

// Cell is one surface unit of the grid.
type Cell struct {
	// Bar indexes Scene.Bars, or -1.
	Bar        int
	Draft      bool
	Weekend    bool
	Today      bool
	MonthStart bool
}

// Grid is the scene rasterized to Width x Height units. Later bars paint
// over earlier ones.
type Grid struct {
	Scene  timeline.Scene
	Width  int
	Height int
	Cells  [][]Cell
}

func NewGrid(sc timeline.Scene, today time.Time) Grid {
	g := Grid{
		Scene:  sc,
		Width:  sc.Window.Width(sc.DayWidth),
		Height: sc.Layout.TotalHeight,
	}
	today = domain.Day(today)

	columns := make([]Cell, g.Width)
	for x := range columns {
		day := domain.AddDays(sc.Window.Start, x/sc.DayWidth)
		columns[x] = Cell{
			Bar:        -1,
			Weekend:    domain.IsWeekend(day),
			Today:      day.Equal(today),
			MonthStart: day.Day() == 1 && x%sc.DayWidth == 0,
		}
	}

	g.Cells = make([][]Cell, g.Height)
	for y := range g.Cells {
		g.Cells[y] = append([]Cell(nil), columns...)
	}
	for i, b := range sc.Bars {
		x0, x1 := max(b.X, 0), min(b.X+b.Width, g.Width)
		for y := max(b.Y, 0); y < min(b.Y+b.Height, g.Height); y++ {
			for x := x0; x < x1; x++ {
				g.Cells[y][x].Bar = i
			}
		}
	}
	return g
}

// PaintDraft marks the cells covered by an open draft on its lot row.
func (g Grid) PaintDraft(d *timeline.Draft) {
	if d == nil || d.RowY < 0 || d.RowY >= g.Height {
		return
	}
	x, w := timeline.BarSpan(d.Range, g.Scene.Window.Start, g.Scene.DayWidth)
	for i := max(x, 0); i < min(x+w, g.Width); i++ {
		g.Cells[d.RowY][i].Draft = true
	}
}

// Glyph is the plain character for a cell.
func (g Grid) Glyph(c Cell) rune {
	switch {
	case c.Draft:
		return '+'
	case c.Bar >= 0:
		b := g.Scene.Bars[c.Bar]
		if b.Overridden {
			return '~'
		}
		if b.Kind == domain.KindWorkPackage {
			return '='
		}
		return '-'
	case c.Today:
		return '|'
	case c.MonthStart:
		return ':'
	case c.Weekend:
		return '.'
	}
	return ' '
}

// Line returns the glyphs of line y with bar labels written inside bars
// wide enough to hold them.
func (g Grid) Line(y int) []rune {
	out := make([]rune, g.Width)
	for x, c := range g.Cells[y] {
		out[x] = g.Glyph(c)
	}
	for i, b := range g.Scene.Bars {
		if y != b.Y {
			continue
		}
		x0, x1 := max(b.X, 0)+1, min(b.X+b.Width, g.Width)-1
		label := []rune(b.Label)
		if len(label) == 0 || x1-x0 < len(label) {
			continue
		}
		for j, r := range label {
			if g.Cells[y][x0+j].Bar != i {
				break
			}
			out[x0+j] = r
		}
	}
	return out
}

// MonthLabel is a month name placed at its first visible column.
type MonthLabel struct {
	X    int
	Text string
}

// MonthLabels lists the months intersecting the window. The first label
// sits at x=0 even when the window starts mid-month.
func MonthLabels(win timeline.Window, dayWidth int) []MonthLabel {
	var out []MonthLabel
	for m := domain.FirstOfMonth(win.Start); !m.After(win.End); m = m.AddDate(0, 1, 0) {
		x := 0
		if m.After(win.Start) {
			x = timeline.PositionForDate(m, win.Start, dayWidth)
		}
		out = append(out, MonthLabel{X: x, Text: m.Format("Jan 2006")})
	}
	return out
}

// RowLabel is the text shown in the label column at line Y.
type RowLabel struct {
	Y       int
	Text    string
	Child   bool
	LotID   string
	Caret   string
	Unsched bool
}

// RowLabels returns one label per lot row and one per visible child row.
func RowLabels(l timeline.Layout) []RowLabel {
	var out []RowLabel
	for _, row := range l.Rows {
		caret := " "
		switch {
		case row.Expanded:
			caret = "▾"
		case row.ChildCount > 0:
			caret = "▸"
		}
		out = append(out, RowLabel{
			Y:       row.Y,
			Text:    row.WorkPackage.Name,
			LotID:   row.WorkPackage.ID,
			Caret:   caret,
			Unsched: !row.WorkPackage.Scheduled(),
		})
		for i, sub := range row.Children {
			out = append(out, RowLabel{Y: l.ChildY(row, i), Text: sub.Title, Child: true, LotID: row.WorkPackage.ID})
		}
	}
	return out
}
