package timeline

import (
	"fmt"
	"strings"
)

// Zoom is a discrete display density controlling units-per-day.
type Zoom string

const (
	ZoomCoarse Zoom = "coarse"
	ZoomMedium Zoom = "medium"
	ZoomFine   Zoom = "fine"
)

// Zooms lists the zoom levels from coarsest to finest.
var Zooms = []Zoom{ZoomCoarse, ZoomMedium, ZoomFine}

// ParseZoom accepts a zoom level name, case-insensitively.
func ParseZoom(s string) (Zoom, error) {
	z := Zoom(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Zooms {
		if z == known {
			return z, nil
		}
	}
	return "", fmt.Errorf("unknown zoom level %q (want coarse, medium or fine)", s)
}

func (z Zoom) index() int {
	for i, known := range Zooms {
		if z == known {
			return i
		}
	}
	return 1
}

// Finer returns the next finer zoom level, staying at the finest.
func (z Zoom) Finer() Zoom {
	return Zooms[min(z.index()+1, len(Zooms)-1)]
}

// Coarser returns the next coarser zoom level, staying at the coarsest.
func (z Zoom) Coarser() Zoom {
	return Zooms[max(z.index()-1, 0)]
}

// WindowMargin is the look-back/look-ahead around the focus month, in months.
type WindowMargin struct {
	Back  int
	Ahead int
}

// Geometry holds the fixed dimensions a renderer lays the timeline out with.
type Geometry struct {
	DayWidths      map[Zoom]int
	Windows        map[Zoom]WindowMargin
	BaseRowHeight  int
	ChildRowHeight int
	HandleWidth    int
}

var defaultWindows = map[Zoom]WindowMargin{
	ZoomCoarse: {Back: 2, Ahead: 9},
	ZoomMedium: {Back: 1, Ahead: 2},
	ZoomFine:   {Back: 0, Ahead: 1},
}

// TerminalGeometry is the default layout for a character-cell display.
func TerminalGeometry() Geometry {
	return Geometry{
		DayWidths:      map[Zoom]int{ZoomCoarse: 1, ZoomMedium: 3, ZoomFine: 6},
		Windows:        cloneWindows(defaultWindows),
		BaseRowHeight:  1,
		ChildRowHeight: 1,
		HandleWidth:    1,
	}
}

// PixelGeometry is the default layout for pixel renderers (SVG export).
func PixelGeometry() Geometry {
	return Geometry{
		DayWidths:      map[Zoom]int{ZoomCoarse: 8, ZoomMedium: 20, ZoomFine: 40},
		Windows:        cloneWindows(defaultWindows),
		BaseRowHeight:  44,
		ChildRowHeight: 32,
		HandleWidth:    6,
	}
}

// DayWidth returns the units-per-day for zoom z. Unknown or non-positive
// entries fall back to the medium width, and the result is never below 1.
func (g Geometry) DayWidth(z Zoom) int {
	if w, ok := g.DayWidths[z]; ok && w > 0 {
		return w
	}
	if w, ok := g.DayWidths[ZoomMedium]; ok && w > 0 {
		return w
	}
	return 1
}

// Window returns the focus-month margin for zoom z.
func (g Geometry) Window(z Zoom) WindowMargin {
	if m, ok := g.Windows[z]; ok {
		return m
	}
	return defaultWindows[z]
}

func cloneWindows(in map[Zoom]WindowMargin) map[Zoom]WindowMargin {
	out := make(map[Zoom]WindowMargin, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
