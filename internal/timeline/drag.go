package timeline

import "github.com/alexanderramin/chantier/internal/domain"

// Gesture is the kind of drag started on an item bar.
type Gesture string

const (
	GestureMove        Gesture = "move"
	GestureResizeStart Gesture = "resize_start"
	GestureResizeEnd   Gesture = "resize_end"
)

// Target identifies the bar region a pointer-down landed on.
type Target struct {
	ItemID    string
	Kind      domain.ItemKind
	Gesture   Gesture
	Persisted domain.DateRange
}

// DragSession is the live state of an in-progress gesture.
type DragSession struct {
	ItemID   string
	Kind     domain.ItemKind
	Gesture  Gesture
	StartX   int
	Original domain.DateRange

	lastDelta int
}

// Event is a pointer event fed to Machine.Reduce.
type Event interface{ isEvent() }

// PointerDown starts a gesture on a bar body or edge handle.
type PointerDown struct {
	Target Target
	X      int
}

// PointerMove reports the pointer position while the button is held.
type PointerMove struct{ X int }

// PointerUp ends the gesture and commits any override.
type PointerUp struct{}

// PointerLeave aborts the gesture when the pointer exits the surface.
type PointerLeave struct{}

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (PointerLeave) isEvent() {}

// Commit is the side effect of a completed gesture: persist Range for the
// item. Dates are calendar dates.
type Commit struct {
	ItemID string
	Kind   domain.ItemKind
	Range  domain.DateRange
}

// Machine is the drag state machine. The zero value is Idle with no
// overrides. Machine values are never mutated in place by Reduce.
type Machine struct {
	Session   *DragSession
	Overrides Overrides
}

// Dragging reports whether a session is active.
func (m Machine) Dragging() bool {
	return m.Session != nil
}

// Reduce applies one event and returns the next machine state together with
// a commit when the event completes a gesture that moved the item.
func (m Machine) Reduce(ev Event, dayWidth int) (Machine, *Commit) {
	switch ev := ev.(type) {
	case PointerDown:
		return m.pointerDown(ev), nil
	case PointerMove:
		return m.pointerMove(ev, dayWidth), nil
	case PointerUp:
		return m.pointerUp()
	case PointerLeave:
		return m.pointerLeave(), nil
	}
	return m, nil
}

func (m Machine) pointerDown(ev PointerDown) Machine {
	if m.Dragging() || ev.Target.ItemID == "" {
		return m
	}
	// Chained drags start from the pending override, never the stale
	// persisted value.
	original := m.Overrides.Effective(ev.Target.ItemID, ev.Target.Persisted)
	m.Session = &DragSession{
		ItemID:   ev.Target.ItemID,
		Kind:     ev.Target.Kind,
		Gesture:  ev.Target.Gesture,
		StartX:   ev.X,
		Original: original,
	}
	return m
}

func (m Machine) pointerMove(ev PointerMove, dayWidth int) Machine {
	if !m.Dragging() {
		return m
	}
	s := *m.Session
	delta := DeltaDays(ev.X-s.StartX, dayWidth)
	if _, has := m.Overrides.Get(s.ItemID); delta == s.lastDelta && !has {
		return m
	}
	s.lastDelta = delta
	m.Session = &s
	m.Overrides = m.Overrides.with(s.ItemID, candidateRange(s.Gesture, s.Original, delta))
	return m
}

// candidateRange computes the speculative range for a gesture. Resizes never
// cross the opposite edge: the interval collapses to zero length instead.
func candidateRange(g Gesture, orig domain.DateRange, delta int) domain.DateRange {
	switch g {
	case GestureResizeStart:
		r := domain.DateRange{Start: domain.AddDays(orig.Start, delta), End: orig.End}
		if r.Start.After(r.End) {
			r.Start = r.End
		}
		return r
	case GestureResizeEnd:
		r := domain.DateRange{Start: orig.Start, End: domain.AddDays(orig.End, delta)}
		if r.End.Before(r.Start) {
			r.End = r.Start
		}
		return r
	default:
		return domain.DateRange{
			Start: domain.AddDays(orig.Start, delta),
			End:   domain.AddDays(orig.End, delta),
		}
	}
}

// pointerUp ends the session. The override stays in place until the caller
// has issued the commit and calls Settle.
func (m Machine) pointerUp() (Machine, *Commit) {
	if !m.Dragging() {
		return m, nil
	}
	s := m.Session
	m.Session = nil
	r, ok := m.Overrides.Get(s.ItemID)
	if !ok {
		return m, nil
	}
	if sameDays(r, s.Original) {
		// Dragged away and back: nothing to persist.
		m.Overrides = m.Overrides.without(s.ItemID)
		return m, nil
	}
	return m, &Commit{ItemID: s.ItemID, Kind: s.Kind, Range: r}
}

func (m Machine) pointerLeave() Machine {
	if !m.Dragging() {
		return m
	}
	id := m.Session.ItemID
	m.Session = nil
	m.Overrides = m.Overrides.without(id)
	return m
}

// Settle clears the override for a commit that has been issued.
func (m Machine) Settle(c *Commit) Machine {
	if c == nil {
		return m
	}
	m.Overrides = m.Overrides.without(c.ItemID)
	return m
}

func sameDays(a, b domain.DateRange) bool {
	return domain.Day(a.Start).Equal(domain.Day(b.Start)) && domain.Day(a.End).Equal(domain.Day(b.End))
}
