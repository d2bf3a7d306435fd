package timeline

import "github.com/alexanderramin/chantier/internal/domain"

// Bar is one item rendered on the timeline, in surface coordinates relative
// to the window start (x) and the content top (y).
type Bar struct {
	ItemID   string
	Kind     domain.ItemKind
	ParentID string
	Label    string
	Status   string
	Color    string
	Range    domain.DateRange
	// Overridden is set when Range comes from a speculative override rather
	// than persisted dates.
	Overridden bool

	X, Width  int
	Y, Height int
}

// Scene is everything a renderer needs to draw one frame.
type Scene struct {
	Window      Window
	DayWidth    int
	HandleWidth int
	Layout      Layout
	Bars        []Bar
}

// BuildScene places a bar for every scheduled lot and every visible child.
// Overrides take precedence over persisted dates.
func BuildScene(l Layout, win Window, dayWidth, handleWidth int, over Overrides) Scene {
	sc := Scene{Window: win, DayWidth: dayWidth, HandleWidth: handleWidth, Layout: l}
	for _, row := range l.Rows {
		lot := row.WorkPackage
		if persisted, ok := lot.Range(); ok {
			sc.Bars = append(sc.Bars, sc.bar(over, lot.ID, domain.KindWorkPackage, persisted, row.Y, l.BaseRowHeight, func(b *Bar) {
				b.Label = lot.Name
				b.Status = string(lot.Status)
				b.Color = lot.Color
			}))
		}
		for i, sub := range row.Children {
			sc.Bars = append(sc.Bars, sc.bar(over, sub.ID, domain.KindSubIntervention, sub.Range(), l.ChildY(row, i), l.ChildRowHeight, func(b *Bar) {
				b.ParentID = lot.ID
				b.Label = sub.Title
				b.Status = string(sub.Status)
				b.Color = sub.Color
			}))
		}
	}
	return sc
}

func (sc Scene) bar(over Overrides, id string, kind domain.ItemKind, persisted domain.DateRange, y, h int, fill func(*Bar)) Bar {
	r, overridden := over.Get(id)
	if !overridden {
		r = persisted
	}
	x, w := BarSpan(r, sc.Window.Start, sc.DayWidth)
	b := Bar{ItemID: id, Kind: kind, Range: r, Overridden: overridden, X: x, Width: w, Y: y, Height: h}
	fill(&b)
	return b
}

// HitKind classifies what lies under a surface point.
type HitKind int

const (
	HitNothing HitKind = iota
	HitBar
	HitEmptyRow
)

// Hit is the result of a hit test.
type Hit struct {
	Kind    HitKind
	Bar     Bar
	Gesture Gesture
	Row     Row
}

// Target converts a bar hit into a drag target.
func (h Hit) Target() Target {
	return Target{ItemID: h.Bar.ItemID, Kind: h.Bar.Kind, Gesture: h.Gesture, Persisted: h.Bar.Range}
}

// HitTest resolves the point (x, y). Bars at least three handles wide expose
// a handle at each edge; bars at least two handles wide expose only the end
// handle; narrower bars are body only.
func (sc Scene) HitTest(x, y int) Hit {
	row, ok := sc.Layout.RowAt(y)
	if !ok || x < 0 || x >= sc.Window.Width(sc.DayWidth) {
		return Hit{Kind: HitNothing}
	}
	for _, b := range sc.Bars {
		if y < b.Y || y >= b.Y+b.Height || x < b.X || x >= b.X+b.Width {
			continue
		}
		return Hit{Kind: HitBar, Bar: b, Gesture: gestureAt(x-b.X, b.Width, sc.HandleWidth), Row: row}
	}
	return Hit{Kind: HitEmptyRow, Row: row}
}

func gestureAt(offset, width, handle int) Gesture {
	if handle <= 0 {
		return GestureMove
	}
	switch {
	case width >= 3*handle:
		if offset < handle {
			return GestureResizeStart
		}
		if offset >= width-handle {
			return GestureResizeEnd
		}
	case width >= 2*handle:
		if offset >= width-handle {
			return GestureResizeEnd
		}
	}
	return GestureMove
}
