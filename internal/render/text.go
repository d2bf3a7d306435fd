package render

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/timeline"
)

// TextOptions controls a plain-text snapshot.
type TextOptions struct {
	LabelWidth int
	Today      time.Time
	Draft      *timeline.Draft
}

// Text writes the scene as plain lines: a month header followed by one line
// per surface unit. It is what the timeline command prints when stdout is
// not a terminal.
func Text(w io.Writer, sc timeline.Scene, opts TextOptions) error {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = 24
	}
	g := NewGrid(sc, opts.Today)
	g.PaintDraft(opts.Draft)

	labels := make(map[int]RowLabel)
	for _, l := range RowLabels(sc.Layout) {
		labels[l.Y] = l
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Repeat(" ", opts.LabelWidth+1))
	bw.WriteString(string(HeaderLine(sc.Window, sc.DayWidth, g.Width)))
	bw.WriteByte('\n')
	for y := 0; y < g.Height; y++ {
		bw.WriteString(Pad(LabelText(labels[y]), opts.LabelWidth))
		bw.WriteByte(' ')
		bw.WriteString(strings.TrimRight(string(g.Line(y)), " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// HeaderLine lays month labels out over width columns. A label that would
// overlap the next month is cut short.
func HeaderLine(win timeline.Window, dayWidth, width int) []rune {
	out := []rune(strings.Repeat(" ", width))
	months := MonthLabels(win, dayWidth)
	for i, m := range months {
		limit := width
		if i+1 < len(months) {
			limit = months[i+1].X - 1
		}
		for j, r := range []rune(m.Text) {
			if m.X+j >= limit {
				break
			}
			out[m.X+j] = r
		}
	}
	return out
}

// LabelText renders the label column. The zero label is blank.
func LabelText(l RowLabel) string {
	if l == (RowLabel{}) {
		return ""
	}
	if l.Child {
		return "   " + l.Text
	}
	text := l.Caret + " " + l.Text
	if l.Unsched {
		text += " (unscheduled)"
	}
	return text
}

// Pad truncates or right-pads s to exactly n runes.
func Pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		if n <= 1 {
			return string(r[:n])
		}
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-len(r))
}
