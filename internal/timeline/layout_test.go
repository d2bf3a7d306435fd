package timeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := domain.NewDate(y, m, d)
	return &t
}

func lot(id string, start *time.Time, sortOrder int) *domain.WorkPackage {
	l := &domain.WorkPackage{ID: id, Name: id, Status: domain.LotPending, StartDate: start, SortOrder: sortOrder}
	if start != nil {
		end := domain.AddDays(*start, 9)
		l.EndDate = &end
	}
	return l
}

func sub(id, parent string, start time.Time, days int) *domain.SubIntervention {
	return &domain.SubIntervention{
		ID:            id,
		WorkPackageID: parent,
		Title:         id,
		StartDate:     start,
		EndDate:       domain.AddDays(start, days-1),
		Status:        domain.InterventionPlanned,
		TeamSize:      1,
		CreatedAt:     start,
	}
}

func pixelView() (Geometry, ViewState) {
	return PixelGeometry(), NewViewState(domain.NewDate(2024, 1, 15), ZoomMedium, ViewAll)
}

func TestComputeLayout_TwoRows(t *testing.T) {
	g, view := pixelView()
	a := lot("a", datePtr(2024, 1, 1), 0)
	b := lot("b", datePtr(2024, 1, 5), 0)
	children := map[string][]*domain.SubIntervention{
		"a": {sub("a1", "a", domain.NewDate(2024, 1, 2), 3), sub("a2", "a", domain.NewDate(2024, 1, 4), 2)},
	}

	l := ComputeLayout([]*domain.WorkPackage{a, b}, children, view, g)

	require.Len(t, l.Rows, 2)
	assert.Equal(t, 152, l.TotalHeight)
	assert.Equal(t, 0, l.Rows[0].Y)
	assert.Equal(t, 108, l.Rows[0].Height)
	assert.True(t, l.Rows[0].Expanded)
	assert.Equal(t, 108, l.Rows[1].Y)
	assert.Equal(t, 44, l.Rows[1].Height)
	assert.False(t, l.Rows[1].Expanded)

	assert.Equal(t, 44, l.ChildY(l.Rows[0], 0))
	assert.Equal(t, 76, l.ChildY(l.Rows[0], 1))
}

func TestComputeLayout_CollapseAndViewMode(t *testing.T) {
	g, view := pixelView()
	a := lot("a", datePtr(2024, 1, 1), 0)
	empty := lot("empty", datePtr(2024, 1, 2), 0)
	children := map[string][]*domain.SubIntervention{
		"a": {sub("a1", "a", domain.NewDate(2024, 1, 2), 3)},
	}
	lots := []*domain.WorkPackage{a, empty}

	view.Collapsed.Toggle("empty")
	l := ComputeLayout(lots, children, view, g)
	assert.Equal(t, 44+32+44, l.TotalHeight, "collapsing a lot without children changes nothing")

	view.Mode = ViewLotsOnly
	l = ComputeLayout(lots, children, view, g)
	assert.Equal(t, 88, l.TotalHeight)
	assert.Empty(t, l.Rows[0].Children)
	assert.Equal(t, 1, l.Rows[0].ChildCount)
}

// TestComputeLayout_Properties checks, over random inputs, that the total is
// the sum of row heights regardless of order, and that collapsing a lot with
// N children removes exactly N child rows of height.
func TestComputeLayout_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g, view := pixelView()

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(8) + 1
		lots := make([]*domain.WorkPackage, n)
		children := map[string][]*domain.SubIntervention{}
		for i := range lots {
			id := string(rune('a' + i))
			lots[i] = lot(id, datePtr(2024, 1, rng.Intn(28)+1), rng.Intn(3))
			kids := rng.Intn(4)
			for k := 0; k < kids; k++ {
				children[id] = append(children[id], sub(id+string(rune('0'+k)), id, domain.NewDate(2024, 1, 1), 2))
			}
		}
		rng.Shuffle(len(lots), func(i, j int) { lots[i], lots[j] = lots[j], lots[i] })

		view.Collapsed = NewCollapseSet()
		l := ComputeLayout(lots, children, view, g)
		sum := 0
		for _, r := range l.Rows {
			sum += r.Height
		}
		assert.Equal(t, sum, l.TotalHeight, "trial %d", trial)

		target := lots[rng.Intn(n)]
		view.Collapsed.Toggle(target.ID)
		collapsed := ComputeLayout(lots, children, view, g)
		want := len(children[target.ID]) * g.ChildRowHeight
		assert.Equal(t, want, l.TotalHeight-collapsed.TotalHeight, "trial %d", trial)
	}
}

func TestLayout_RowAt(t *testing.T) {
	g, view := pixelView()
	a := lot("a", datePtr(2024, 1, 1), 0)
	b := lot("b", datePtr(2024, 1, 5), 0)
	l := ComputeLayout([]*domain.WorkPackage{a, b}, nil, view, g)

	r, ok := l.RowAt(0)
	require.True(t, ok)
	assert.Equal(t, "a", r.WorkPackage.ID)
	r, ok = l.RowAt(44)
	require.True(t, ok)
	assert.Equal(t, "b", r.WorkPackage.ID)
	_, ok = l.RowAt(88)
	assert.False(t, ok)
	_, ok = l.RowAt(-1)
	assert.False(t, ok)
}

func TestSortWorkPackages(t *testing.T) {
	unscheduled := lot("u", nil, 0)
	late := lot("late", datePtr(2024, 3, 1), 0)
	tieB := lot("tie-b", datePtr(2024, 1, 1), 2)
	tieA := lot("tie-a", datePtr(2024, 1, 1), 1)
	in := []*domain.WorkPackage{unscheduled, late, tieB, tieA}

	out := SortWorkPackages(in)

	ids := make([]string, len(out))
	for i, l := range out {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"tie-a", "tie-b", "late", "u"}, ids)
	assert.Equal(t, "u", in[0].ID, "input order untouched")
}
