package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// ViewMode controls whether sub-intervention rows are shown at all.
type ViewMode string

const (
	ViewAll      ViewMode = "all"
	ViewLotsOnly ViewMode = "lots"
)

// ParseViewMode accepts "all" or "lots".
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewAll:
		return ViewAll, nil
	case ViewLotsOnly:
		return ViewLotsOnly, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want all or lots)", s)
}

// ViewState is the explicit, passed-in UI state every layout and coordinate
// computation depends on. It is owned by a single event loop.
type ViewState struct {
	Zoom       Zoom
	Mode       ViewMode
	FocusMonth time.Time
	Collapsed  CollapseSet
	Filter     Filter
}

// NewViewState focuses the month containing today.
func NewViewState(today time.Time, zoom Zoom, mode ViewMode) ViewState {
	if zoom == "" {
		zoom = ZoomMedium
	}
	if mode == "" {
		mode = ViewAll
	}
	return ViewState{
		Zoom:       zoom,
		Mode:       mode,
		FocusMonth: domain.FirstOfMonth(today),
		Collapsed:  NewCollapseSet(),
	}
}

// Window returns the visible date window for the current focus and zoom.
func (v ViewState) Window(g Geometry) Window {
	return VisibleWindow(v.FocusMonth, g.Window(v.Zoom))
}

// ShowsChildren reports whether the view mode permits nested rows.
func (v ViewState) ShowsChildren() bool {
	return v.Mode != ViewLotsOnly
}

// PanMonths moves the focus month by n (negative pans back).
func (v *ViewState) PanMonths(n int) {
	v.FocusMonth = domain.FirstOfMonth(v.FocusMonth).AddDate(0, n, 0)
}

// FocusOn moves the focus to the month containing d.
func (v *ViewState) FocusOn(d time.Time) {
	v.FocusMonth = domain.FirstOfMonth(d)
}

// ZoomIn switches to the next finer zoom level.
func (v *ViewState) ZoomIn() { v.Zoom = v.Zoom.Finer() }

// ZoomOut switches to the next coarser zoom level.
func (v *ViewState) ZoomOut() { v.Zoom = v.Zoom.Coarser() }

// ToggleMode flips between all rows and lots only.
func (v *ViewState) ToggleMode() {
	if v.Mode == ViewLotsOnly {
		v.Mode = ViewAll
		return
	}
	v.Mode = ViewLotsOnly
}

// CollapseSet holds the ids of work packages whose sub-items are hidden.
type CollapseSet map[string]struct{}

func NewCollapseSet() CollapseSet {
	return make(CollapseSet)
}

func (c CollapseSet) Has(id string) bool {
	_, ok := c[id]
	return ok
}

// Toggle flips membership of id and reports whether it is now collapsed.
func (c CollapseSet) Toggle(id string) bool {
	if c.Has(id) {
		delete(c, id)
		return false
	}
	c[id] = struct{}{}
	return true
}

// CollapseAll adds every id in ids.
func (c CollapseSet) CollapseAll(ids []string) {
	for _, id := range ids {
		c[id] = struct{}{}
	}
}

// Clear expands everything.
func (c CollapseSet) Clear() {
	for id := range c {
		delete(c, id)
	}
}
