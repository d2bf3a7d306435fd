package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
)

// SVGOptions controls an SVG export. Zero values take the defaults below.
type SVGOptions struct {
	Title        string
	LabelWidth   int
	HeaderHeight int
	FontFamily   string
	Today        time.Time
	Palette      Palette
}

const (
	defaultSVGLabelWidth   = 220
	defaultSVGHeaderHeight = 48
	svgBackground          = "#fbf1c7"
	svgGrid                = "#d5c4a1"
	svgWeekend             = "#f2e5bc"
	svgText                = "#3c3836"
	svgToday               = "#cc241d"
)

// SVG writes the scene as a standalone SVG document. The scene must use
// pixel geometry; surface coordinates are shifted right by the label
// column and down by the header.
func SVG(w io.Writer, sc timeline.Scene, opts SVGOptions) error {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = defaultSVGLabelWidth
	}
	if opts.HeaderHeight <= 0 {
		opts.HeaderHeight = defaultSVGHeaderHeight
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "sans-serif"
	}
	surfaceW := sc.Window.Width(sc.DayWidth)
	width := opts.LabelWidth + surfaceW
	height := opts.HeaderHeight + sc.Layout.TotalHeight
	ox, oy := opts.LabelWidth, opts.HeaderHeight

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.lot { font-family: %s; font-size: 13px; font-weight: bold; fill: %s; }
.sub { font-family: %s; font-size: 11px; fill: %s; }
.month { font-family: %s; font-size: 12px; fill: %s; }
.bar-label { font-family: %s; font-size: 11px; fill: #ffffff; }
</style>
</defs>
`, width, height, svgBackground,
		opts.FontFamily, svgText,
		opts.FontFamily, svgText,
		opts.FontFamily, svgText,
		opts.FontFamily)

	if opts.Title != "" {
		fmt.Fprintf(bw, `<text x="8" y="20" class="lot">%s</text>`+"\n", escapeXML(opts.Title))
	}

	// Weekend shading only where a day is wide enough to see it.
	if sc.DayWidth >= 8 {
		for d := 0; d < sc.Window.Days(); d++ {
			if domain.IsWeekend(domain.AddDays(sc.Window.Start, d)) {
				fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
					ox+d*sc.DayWidth, oy, sc.DayWidth, sc.Layout.TotalHeight, svgWeekend)
			}
		}
	}

	for _, m := range MonthLabels(sc.Window, sc.DayWidth) {
		fmt.Fprintf(bw, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			ox+m.X, oy-16, ox+m.X, height, svgGrid)
		fmt.Fprintf(bw, `<text x="%d" y="%d" class="month">%s</text>`+"\n", ox+m.X+4, oy-6, escapeXML(m.Text))
	}
	fmt.Fprintf(bw, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n", oy, width, oy, svgGrid)

	for _, row := range sc.Layout.Rows {
		fmt.Fprintf(bw, `<line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			oy+row.Y+row.Height, width, oy+row.Y+row.Height, svgGrid)
	}
	for _, l := range RowLabels(sc.Layout) {
		class, indent, h := "lot", 8, sc.Layout.BaseRowHeight
		if l.Child {
			class, indent, h = "sub", 24, sc.Layout.ChildRowHeight
		}
		fmt.Fprintf(bw, `<text x="%d" y="%d" class="%s">%s</text>`+"\n",
			indent, oy+l.Y+h/2+4, class, escapeXML(clipText(l.Text, opts.LabelWidth-indent, 7)))
	}

	for _, b := range sc.Bars {
		x0, x1 := max(b.X, 0), min(b.X+b.Width, surfaceW)
		if x1 <= x0 {
			continue
		}
		inset := b.Height / 6
		dash := ""
		if b.Overridden {
			dash = ` stroke-dasharray="4 2"`
		}
		fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="%d" rx="3" fill="%s" stroke="%s" stroke-width="1"%s><title>%s %s</title></rect>`+"\n",
			ox+x0, oy+b.Y+inset, x1-x0, b.Height-2*inset, opts.Palette.Bar(b), opts.Palette.Status(b.Status), dash,
			escapeXML(b.Label), b.Range)
		if label := clipText(b.Label, x1-x0-8, 6); label != "" {
			fmt.Fprintf(bw, `<text x="%d" y="%d" class="bar-label">%s</text>`+"\n",
				ox+x0+4, oy+b.Y+b.Height/2+4, escapeXML(label))
		}
	}

	if !opts.Today.IsZero() && sc.Window.Contains(opts.Today) {
		x := ox + timeline.PositionForDate(domain.Day(opts.Today), sc.Window.Start, sc.DayWidth) + sc.DayWidth/2
		fmt.Fprintf(bw, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
			x, oy-16, x, height, svgToday)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// clipText fits s into px pixels assuming a fixed advance per rune. Text
// that cannot show at least three runes is dropped.
func clipText(s string, px, advance int) string {
	n := px / advance
	r := []rune(s)
	if n < 3 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
