package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/render"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	draftStyle  = lipgloss.NewStyle().Background(formatter.ColorYellow).Foreground(formatter.ColorBg).Bold(true)
)

func (v *timelineView) View() string {
	if v.loading && v.data == nil {
		return formatter.Dim("Loading timeline…")
	}
	if v.err != nil {
		return formatter.StyleRed.Render("Could not load timeline: " + v.err.Error())
	}

	sc := v.board.Scene()
	grid := render.NewGrid(sc, v.state.Today)
	grid.PaintDraft(v.board.Draft())

	gw := v.gridWidth()
	lines := make([]string, 0, v.gridRows()+timelineHeaderLines+1)
	lines = append(lines, v.renderStatsLine())

	header := render.HeaderLine(sc.Window, sc.DayWidth, grid.Width)
	lines = append(lines, strings.Repeat(" ", v.labelCols())+formatter.StyleHeader.Render(string(window(header, v.scrollX, gw))))

	labels := map[int]render.RowLabel{}
	for _, l := range v.lines() {
		labels[l.Y] = l
	}
	cursor, hasCursor := v.cursorLine()

	for i, n := 0, v.gridRows(); i < n; i++ {
		y := v.scrollY + i
		if y >= grid.Height {
			lines = append(lines, "")
			continue
		}
		label := render.Pad(render.LabelText(labels[y]), v.labelWidth)
		if hasCursor && cursor.Y == y {
			label = cursorStyle.Render(label)
		} else if l, ok := labels[y]; ok && !l.Child {
			label = formatter.Bold(label)
		}
		lines = append(lines, label+" "+v.renderGridLine(grid, y, gw))
	}
	lines = append(lines, v.renderDetail())
	return strings.Join(lines, "\n")
}

func (v *timelineView) renderStatsLine() string {
	parts := []string{
		formatter.FormatStats(v.board.Stats()),
		formatter.Dim(fmt.Sprintf("zoom %s", v.board.View.Zoom)),
	}
	if !v.board.View.ShowsChildren() {
		parts = append(parts, formatter.StyleBlue.Render("lots only"))
	}
	if f := v.board.View.Filter; !f.IsZero() {
		parts = append(parts, formatter.StylePurple.Render(filterSummary(f)))
	}
	if n := v.board.InFlight(); n > 0 {
		parts = append(parts, formatter.StyleYellow.Render(fmt.Sprintf("saving %d…", n)))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}

func filterSummary(f timeline.Filter) string {
	var parts []string
	if len(f.Statuses) > 0 {
		names := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			names[i] = strings.ReplaceAll(string(s), "_", " ")
		}
		parts = append(parts, strings.Join(names, "|"))
	}
	switch n := len(f.CompanyIDs); {
	case n == 1:
		parts = append(parts, "1 company")
	case n > 1:
		parts = append(parts, fmt.Sprintf("%d companies", n))
	}
	return "filter: " + strings.Join(parts, ", ")
}

// renderGridLine styles the visible slice of line y in runs of cells that
// share a style.
func (v *timelineView) renderGridLine(g render.Grid, y, width int) string {
	glyphs := g.Line(y)
	var b strings.Builder
	var run []rune
	var runStyle *lipgloss.Style
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runStyle == nil {
			b.WriteString(string(run))
		} else {
			b.WriteString(runStyle.Render(string(run)))
		}
		run = run[:0]
	}

	var prevKey string
	for x := v.scrollX; x < v.scrollX+width && x < g.Width; x++ {
		k, st := v.cellStyle(g, g.Cells[y][x])
		if k != prevKey {
			flush()
			prevKey, runStyle = k, st
		}
		run = append(run, glyphs[x])
	}
	flush()
	return b.String()
}

func (v *timelineView) cellStyle(g render.Grid, c render.Cell) (string, *lipgloss.Style) {
	switch {
	case c.Draft:
		return "draft", &draftStyle
	case c.Bar >= 0:
		hex := formatter.Palette.Bar(g.Scene.Bars[c.Bar])
		st := formatter.BarStyle(hex)
		return "bar" + hex, &st
	case c.Today:
		return "today", &formatter.StyleRed
	case c.MonthStart, c.Weekend:
		return "dim", &formatter.StyleDim
	}
	return "", nil
}

// renderDetail describes the draft being typed, the drag in progress or the
// item under the cursor.
func (v *timelineView) renderDetail() string {
	if d := v.board.Draft(); d != nil {
		lot := d.ParentID
		if l, ok := v.board.Lot(d.ParentID); ok {
			lot = l.Name
		}
		return formatter.StyleYellow.Render("+ "+lot+" "+d.Range.String()) + "  " + v.title.View()
	}
	if s := v.board.Session(); s != nil {
		for _, b := range v.board.Scene().Bars {
			if b.ItemID == s.ItemID {
				return formatter.StyleYellow.Render(fmt.Sprintf("%s %s  %s", gestureVerb(s.Gesture), b.Label, formatter.FormatRange(b.Range)))
			}
		}
	}

	l, ok := v.cursorLine()
	if !ok {
		if len(v.board.Lots()) == 0 {
			return formatter.Dim("No lots yet. Add one with `chantier lot add`.")
		}
		return formatter.Dim("Nothing matches the current filter.")
	}
	if l.Child {
		if b, ok := v.barAtLine(l.Y); ok {
			return fmt.Sprintf("%s  %s  %s", formatter.Bold(b.Label), formatter.StatusPill(b.Status), formatter.FormatRange(b.Range))
		}
		return formatter.Bold(strings.TrimSpace(l.Text))
	}
	lot, ok := v.board.Lot(l.LotID)
	if !ok {
		return ""
	}
	parts := []string{formatter.Bold(lot.Name), formatter.StatusPill(string(lot.Status))}
	if r, ok := lot.Range(); ok {
		parts = append(parts, formatter.FormatRange(r))
	} else {
		parts = append(parts, formatter.Dim("unscheduled"))
	}
	if v.data != nil {
		if name := v.data.CompanyName(lot.CompanyIDOrEmpty()); name != "" {
			parts = append(parts, formatter.Dim(name))
		}
	}
	return strings.Join(parts, "  ")
}

func gestureVerb(g timeline.Gesture) string {
	switch g {
	case timeline.GestureResizeStart, timeline.GestureResizeEnd:
		return "resize"
	}
	return "move"
}

// window returns the visible slice [from, from+n) of a line.
func window(line []rune, from, n int) []rune {
	from = min(max(from, 0), len(line))
	return line[from:min(from+n, len(line))]
}
