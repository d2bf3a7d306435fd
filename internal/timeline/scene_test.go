package timeline

import (
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene(over Overrides) Scene {
	g, view := pixelView()
	a := lot("a", datePtr(2024, 1, 1), 0)
	u := lot("u", nil, 0)
	children := map[string][]*domain.SubIntervention{
		"a": {sub("a1", "a", domain.NewDate(2024, 1, 2), 1)},
	}
	l := ComputeLayout([]*domain.WorkPackage{a, u}, children, view, g)
	return BuildScene(l, view.Window(g), g.DayWidth(view.Zoom), g.HandleWidth, over)
}

func TestBuildScene_Bars(t *testing.T) {
	sc := sampleScene(nil)

	// Window starts 2023-12-01; unscheduled lots get no bar.
	require.Len(t, sc.Bars, 2)
	lotBar, child := sc.Bars[0], sc.Bars[1]
	assert.Equal(t, domain.KindWorkPackage, lotBar.Kind)
	assert.Equal(t, 31*20, lotBar.X)
	assert.Equal(t, 200, lotBar.Width)
	assert.Equal(t, 0, lotBar.Y)
	assert.Equal(t, 44, lotBar.Height)

	assert.Equal(t, domain.KindSubIntervention, child.Kind)
	assert.Equal(t, "a", child.ParentID)
	assert.Equal(t, 44, child.Y)
	assert.Equal(t, 32, child.Height)
	assert.Equal(t, 20, child.Width)
}

func TestBuildScene_OverrideWins(t *testing.T) {
	moved := domain.DateRange{Start: domain.NewDate(2024, 1, 6), End: domain.NewDate(2024, 1, 15)}
	sc := sampleScene(Overrides{"a": moved})

	assert.Equal(t, moved, sc.Bars[0].Range)
	assert.True(t, sc.Bars[0].Overridden)
	assert.Equal(t, 36*20, sc.Bars[0].X)
	assert.False(t, sc.Bars[1].Overridden)
}

func TestScene_HitTest(t *testing.T) {
	sc := sampleScene(nil)
	x0 := 31 * 20

	h := sc.HitTest(x0+2, 10)
	assert.Equal(t, HitBar, h.Kind)
	assert.Equal(t, GestureResizeStart, h.Gesture)

	h = sc.HitTest(x0+100, 10)
	assert.Equal(t, GestureMove, h.Gesture)
	assert.Equal(t, "a", h.Target().ItemID)

	h = sc.HitTest(x0+199, 10)
	assert.Equal(t, GestureResizeEnd, h.Gesture)

	h = sc.HitTest(x0+400, 10)
	assert.Equal(t, HitEmptyRow, h.Kind)
	assert.Equal(t, "a", h.Row.WorkPackage.ID)

	h = sc.HitTest(x0+200, 50)
	assert.Equal(t, HitEmptyRow, h.Kind, "child row beyond the child bar")

	h = sc.HitTest(x0+30, 50)
	assert.Equal(t, HitBar, h.Kind)
	assert.Equal(t, "a1", h.Bar.ItemID)

	h = sc.HitTest(x0, 90)
	assert.Equal(t, HitEmptyRow, h.Kind)
	assert.Equal(t, "u", h.Row.WorkPackage.ID)

	assert.Equal(t, HitNothing, sc.HitTest(x0, 500).Kind)
	assert.Equal(t, HitNothing, sc.HitTest(-1, 10).Kind)
}

func TestGestureAt_NarrowBars(t *testing.T) {
	assert.Equal(t, GestureResizeStart, gestureAt(0, 3, 1))
	assert.Equal(t, GestureMove, gestureAt(1, 3, 1))
	assert.Equal(t, GestureResizeEnd, gestureAt(2, 3, 1))

	assert.Equal(t, GestureMove, gestureAt(0, 2, 1))
	assert.Equal(t, GestureResizeEnd, gestureAt(1, 2, 1))

	assert.Equal(t, GestureMove, gestureAt(0, 1, 1))
	assert.Equal(t, GestureMove, gestureAt(0, 20, 0))
}
