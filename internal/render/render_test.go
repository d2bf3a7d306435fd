package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := domain.NewDate(y, m, d)
	return &t
}

// januaryScene lays one lot (Jan 2..20) with one child (Jan 3..4) over
// January 2024 at one unit per day. 2024-01-01 is a Monday.
func januaryScene(t *testing.T, g timeline.Geometry, dayWidth int) timeline.Scene {
	t.Helper()
	lot := &domain.WorkPackage{
		ID: "lot-1", Name: "Gros oeuvre", Status: domain.LotInProgress,
		StartDate: datePtr(2024, 1, 2), EndDate: datePtr(2024, 1, 20), Color: "#d65d0e",
	}
	child := &domain.SubIntervention{
		ID: "sub-1", WorkPackageID: "lot-1", Title: "Coffrage", Status: domain.InterventionPlanned,
		StartDate: domain.NewDate(2024, 1, 3), EndDate: domain.NewDate(2024, 1, 4),
	}
	view := timeline.NewViewState(domain.NewDate(2024, 1, 1), timeline.ZoomCoarse, timeline.ViewAll)
	l := timeline.ComputeLayout([]*domain.WorkPackage{lot},
		map[string][]*domain.SubIntervention{"lot-1": {child}}, view, g)
	win := timeline.Window{Start: domain.NewDate(2024, 1, 1), End: domain.NewDate(2024, 1, 31)}
	sc := timeline.BuildScene(l, win, dayWidth, g.HandleWidth, nil)
	require.Len(t, sc.Bars, 2)
	return sc
}

func TestNewGrid_PaintsBarsAndCalendar(t *testing.T) {
	sc := januaryScene(t, timeline.TerminalGeometry(), 1)
	g := NewGrid(sc, domain.NewDate(2024, 1, 25))

	require.Equal(t, 31, g.Width)
	require.Equal(t, 2, g.Height)

	assert.Equal(t, -1, g.Cells[0][0].Bar)
	assert.True(t, g.Cells[0][0].MonthStart)
	assert.Equal(t, 0, g.Cells[0][1].Bar)
	assert.Equal(t, 0, g.Cells[0][19].Bar)
	assert.Equal(t, -1, g.Cells[0][20].Bar)
	assert.Equal(t, 1, g.Cells[1][2].Bar)
	assert.Equal(t, 1, g.Cells[1][3].Bar)
	assert.True(t, g.Cells[1][5].Weekend, "Jan 6 is a Saturday")
	assert.True(t, g.Cells[1][24].Today)
	assert.False(t, g.Cells[1][23].Today)
}

func TestGrid_Line(t *testing.T) {
	sc := januaryScene(t, timeline.TerminalGeometry(), 1)
	g := NewGrid(sc, domain.NewDate(2024, 1, 25))

	top := g.Line(0)
	assert.Equal(t, "Gros oeuvre", string(top[2:13]), "label fits inside the lot bar")
	assert.Equal(t, '=', top[1])
	assert.Equal(t, '|', top[24])
	assert.Equal(t, '.', top[26], "Jan 27 is a Saturday")

	child := g.Line(1)
	assert.Equal(t, '-', child[2])
	assert.Equal(t, '-', child[3])
	assert.NotContains(t, string(child), "Coffrage", "too narrow for its label")
}

func TestGrid_PaintDraft(t *testing.T) {
	sc := januaryScene(t, timeline.TerminalGeometry(), 1)
	g := NewGrid(sc, time.Time{})
	g.PaintDraft(&timeline.Draft{
		ParentID: "lot-1",
		Range:    domain.DateRange{Start: domain.NewDate(2024, 1, 22), End: domain.NewDate(2024, 1, 26)},
		RowY:     0,
	})
	assert.Equal(t, "+++++", string(g.Line(0)[21:26]))

	g.PaintDraft(&timeline.Draft{RowY: 9})
	g.PaintDraft(nil)
}

func TestMonthLabels(t *testing.T) {
	win := timeline.Window{Start: domain.NewDate(2024, 1, 15), End: domain.NewDate(2024, 3, 31)}
	labels := MonthLabels(win, 2)
	require.Len(t, labels, 3)
	assert.Equal(t, MonthLabel{X: 0, Text: "Jan 2024"}, labels[0])
	assert.Equal(t, MonthLabel{X: 34, Text: "Feb 2024"}, labels[1])
	assert.Equal(t, MonthLabel{X: 92, Text: "Mar 2024"}, labels[2])
}

func TestText(t *testing.T) {
	sc := januaryScene(t, timeline.TerminalGeometry(), 1)
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sc, TextOptions{LabelWidth: 14, Today: domain.NewDate(2024, 1, 25)}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], strings.Repeat(" ", 15)+"Jan 2024"))
	assert.True(t, strings.HasPrefix(lines[1], "▾ Gros oeuvre  "))
	assert.True(t, strings.HasPrefix(lines[2], "   Coffrage    "))
	assert.Contains(t, lines[1], "Gros oeuvre=")
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", Pad("ab", 4))
	assert.Equal(t, "abc…", Pad("abcdef", 4))
	assert.Equal(t, "a", Pad("abc", 1))
}

func TestPalette(t *testing.T) {
	p := Palette{Overrides: map[string]string{"delayed": "#ff0000"}}
	assert.Equal(t, "#ff0000", p.Status("delayed"))
	assert.Equal(t, DefaultStatusColors["planned"], p.Status("planned"))
	assert.Equal(t, fallbackColor, p.Status("unknown"))

	assert.Equal(t, "#123456", p.Bar(timeline.Bar{Color: "#123456", Status: "delayed"}))
	assert.Equal(t, "#ff0000", p.Bar(timeline.Bar{Status: "delayed"}))
}

func TestSVG(t *testing.T) {
	sc := januaryScene(t, timeline.PixelGeometry(), 20)
	sc.Bars[1].Label = `Coffrage <R&D>`
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sc, SVGOptions{Title: "VIL01", Today: domain.NewDate(2024, 1, 25)}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<svg width="840" height="124"`)
	assert.Contains(t, out, "Jan 2024")
	assert.Contains(t, out, `fill="#d65d0e"`, "lot color wins")
	assert.Contains(t, out, `fill="`+DefaultStatusColors["planned"]+`"`, "child falls back to status color")
	assert.Contains(t, out, "Coffrage &lt;R&amp;D&gt;")
	assert.NotContains(t, out, "<R&D>")
	assert.Contains(t, out, `stroke="`+svgToday+`"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestSVG_OverriddenBarIsDashed(t *testing.T) {
	sc := januaryScene(t, timeline.PixelGeometry(), 20)
	sc.Bars[0].Overridden = true
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sc, SVGOptions{}))
	assert.Contains(t, buf.String(), `stroke-dasharray="4 2"`)
	assert.NotContains(t, buf.String(), `stroke="`+svgToday+`"`, "no today marker without a date")
}
