package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/teatest"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With a 120x40 terminal, medium zoom (3 cells a day) and today on
// 2024-01-15, the window runs from 2023-12-01 and is scrolled so January 1st
// sits at the left edge of the grid. The grid starts at column 25 (label
// column plus separator) and line 4 (app header plus the stats and month
// lines). Gros oeuvre is on line 4 covering columns 25-117, Electricite on
// line 5 from column 118.
const (
	gridLeft = 25
	grosLine = 4
	elecLine = 5
)

func newTimelineDriver(t *testing.T, a *App, proj *domain.Project) (*teatest.Driver, *timelineView) {
	t.Helper()
	state := &SharedState{App: a, Project: proj, Today: testToday}
	view := newTimelineView(state, proj.ID,
		timeline.NewBoard(timeline.TerminalGeometry(), timeline.NewViewState(testToday, timeline.ZoomMedium, timeline.ViewAll), testToday),
		24, nil)
	d := teatest.New(t, newAppModel(state, view), teatest.WithSize(120, 40))
	d.DrainInit()
	return d, view
}

func lastNotice(d *teatest.Driver) notifyMsg {
	return d.Model.(appModel).notice
}

func TestTimelineView_Renders(t *testing.T) {
	a := testApp(t)
	proj, _, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	require.Len(t, view.board.Lots(), 2)
	assert.Equal(t, 93, view.scrollX)

	out := stripANSI(d.View())
	assert.Contains(t, out, "VIL01")
	assert.Contains(t, out, "Gros oeuvre")
	assert.Contains(t, out, "Electricite")
	assert.Contains(t, out, "Jan 2024")
	assert.Contains(t, out, "2 items")
}

func TestTimelineView_DragMovesLot(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	// Body of the Gros oeuvre bar, dragged six cells (two days) right.
	d.Drag(52, grosLine, 58, grosLine)

	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, 1, 3), *got.StartDate)
	assert.Equal(t, domain.NewDate(2024, 2, 2), *got.EndDate)
	assert.Zero(t, view.board.InFlight())
	assert.False(t, view.board.Dragging())

	n := lastNotice(d)
	assert.Equal(t, notifySuccess, n.level)
	assert.Contains(t, n.text, "Gros oeuvre")
}

func TestTimelineView_ResizeEnd(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, _ := newTimelineDriver(t, a, proj)

	// The last cell of the bar is its end handle.
	d.Drag(117, grosLine, 111, grosLine)

	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, 1, 1), *got.StartDate, "start is untouched")
	assert.Equal(t, domain.NewDate(2024, 1, 29), *got.EndDate)
}

func TestTimelineView_LeavingTheGridCancelsDrag(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.MouseDown(52, grosLine)
	d.MouseMove(55, grosLine)
	require.True(t, view.board.Dragging())
	d.MouseMove(55, 1)
	assert.False(t, view.board.Dragging())
	d.MouseUp(55, 1)

	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, 1, 1), *got.StartDate)
	assert.Zero(t, view.board.InFlight())
}

func TestTimelineView_ClickWithoutMoveCommitsNothing(t *testing.T) {
	a := testApp(t)
	proj, _, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.Click(52, grosLine)
	assert.Zero(t, view.board.InFlight())
	assert.Empty(t, lastNotice(d).text)
}

func TestTimelineView_FailedCommitRevertsAndReloads(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	// Another client removes the lot after the timeline loaded.
	require.NoError(t, a.Lots.Delete(context.Background(), gros.ID))

	d.Drag(52, grosLine, 58, grosLine)

	n := lastNotice(d)
	assert.Equal(t, notifyError, n.level)
	assert.Contains(t, n.text, "Could not move Gros oeuvre")
	assert.Zero(t, view.board.InFlight())
	require.Len(t, view.board.Lots(), 1, "reloaded from the store")
	assert.Equal(t, "Electricite", view.board.Lots()[0].Name)
}

func TestTimelineView_InlineCreate(t *testing.T) {
	a := testApp(t)
	proj, _, elec := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	// Column 82 is day 50 of the window: 2024-01-20, left of the Electricite bar.
	d.Click(82, elecLine)
	draft := view.board.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, elec.ID, draft.ParentID)
	assert.Equal(t, domain.NewDate(2024, 1, 20), draft.Range.Start)
	assert.Equal(t, domain.NewDate(2024, 1, 24), draft.Range.End)
	assert.Contains(t, stripANSI(d.View()), "+++", "draft cells are painted")

	d.Type("Tirage")
	d.PressEnter()
	assert.Nil(t, view.board.Draft())

	items, err := a.Schedule.ListInterventions(context.Background(), elec.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tirage", items[0].Title)
	assert.Equal(t, domain.NewDate(2024, 1, 20), items[0].StartDate)
	assert.Equal(t, domain.NewDate(2024, 1, 24), items[0].EndDate)
	assert.Equal(t, "#458588", items[0].Color)

	// The reload shows the new child row under Electricite.
	assert.Len(t, view.board.Layout().Rows[1].Children, 1)
}

func TestTimelineView_InlineCreateDefaultsTitle(t *testing.T) {
	a := testApp(t)
	proj, _, elec := seedSite(t, a)
	d, _ := newTimelineDriver(t, a, proj)

	d.Click(82, elecLine)
	d.PressEnter()

	items, err := a.Schedule.ListInterventions(context.Background(), elec.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, timeline.DefaultDraftTitle, items[0].Title)
}

func TestTimelineView_EscDiscardsDraft(t *testing.T) {
	a := testApp(t)
	proj, _, elec := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.Click(82, elecLine)
	d.Type("quick")
	assert.False(t, d.Quitting, "q goes to the draft title")
	d.PressEsc()

	assert.Nil(t, view.board.Draft())
	items, err := a.Schedule.ListInterventions(context.Background(), elec.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTimelineView_PressOnBarWhileDraftOpenIsIgnored(t *testing.T) {
	a := testApp(t)
	proj, _, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.Click(82, elecLine)
	require.NotNil(t, view.board.Draft())
	d.MouseDown(52, grosLine)
	assert.False(t, view.board.Dragging())
}

func TestTimelineView_Keys(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.PressKey('s')
	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LotInProgress, got.Status)

	d.PressKey('l')
	assert.Equal(t, domain.NewDate(2024, 2, 1), view.board.View.FocusMonth)
	d.PressKey('t')
	assert.Equal(t, domain.NewDate(2024, 1, 1), view.board.View.FocusMonth)

	d.PressKey('z')
	assert.Equal(t, timeline.ZoomFine, view.board.View.Zoom)
	d.PressKey('Z')
	d.PressKey('Z')
	assert.Equal(t, timeline.ZoomCoarse, view.board.View.Zoom)

	d.PressKey('v')
	assert.Equal(t, timeline.ViewLotsOnly, view.board.View.Mode)
	assert.Contains(t, stripANSI(d.View()), "lots only")

	d.PressDown()
	l, ok := view.cursorLine()
	require.True(t, ok)
	assert.Equal(t, "Electricite", l.Text)
}

func TestTimelineView_CollapseFromLabelColumn(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	_, err := a.Schedule.BulkCreateSubInterventions(context.Background(), rangePayloads(gros.ID, "Coffrage", "",
		[]domain.DateRange{
			{Start: domain.NewDate(2024, 1, 2), End: domain.NewDate(2024, 1, 3)},
			{Start: domain.NewDate(2024, 1, 9), End: domain.NewDate(2024, 1, 10)},
		}))
	require.NoError(t, err)
	d, view := newTimelineDriver(t, a, proj)

	require.True(t, view.board.Layout().Rows[0].Expanded)
	assert.Equal(t, 4, view.board.Layout().TotalHeight)

	d.Click(3, grosLine)
	assert.False(t, view.board.Layout().Rows[0].Expanded)
	assert.Equal(t, 2, view.board.Layout().TotalHeight)

	d.PressEnter()
	assert.True(t, view.board.Layout().Rows[0].Expanded, "enter toggles the lot under the cursor")
}

func TestTimelineView_DeleteInterventionAtCursor(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	_, err := a.Schedule.CreateSubIntervention(context.Background(), domain.NewSubIntervention{
		ParentID: gros.ID, Title: "Fondations",
		StartDate: domain.NewDate(2024, 1, 2), EndDate: domain.NewDate(2024, 1, 5),
	})
	require.NoError(t, err)
	d, _ := newTimelineDriver(t, a, proj)

	d.PressKey('x')
	assert.Equal(t, notifyInfo, lastNotice(d).level, "a lot row is not deletable")

	d.PressDown()
	d.PressKey('x')
	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Contains(t, lastNotice(d).text, "Fondations")
}

func TestTimelineView_FilterHidesLots(t *testing.T) {
	a := testApp(t)
	proj, _, _ := seedSite(t, a)
	d, view := newTimelineDriver(t, a, proj)

	d.Send(filterChosenMsg{filter: timeline.Filter{Statuses: []domain.WorkPackageStatus{domain.LotCompleted}}})
	assert.Empty(t, view.board.Layout().Rows)
	assert.Contains(t, stripANSI(d.View()), "filter: completed")
}

// ── plan review ──────────────────────────────────────────────────────────────

func newReviewDriver(t *testing.T, a *App, proj *domain.Project, proposals []domain.ProposedIntervention) (*teatest.Driver, *planReviewView) {
	t.Helper()
	preview, err := a.Plans.Preview(context.Background(), proj.ID, proposals)
	require.NoError(t, err)
	state := &SharedState{App: a, Project: proj, Today: testToday}
	review := newPlanReviewView(state, proj.ID, proposals, preview, true)
	d := teatest.New(t, newAppModel(state, review), teatest.WithSize(120, 40))
	d.DrainInit()
	return d, review
}

var samplePlan = []domain.ProposedIntervention{
	{WorkPackageName: "Gros oeuvre", Title: "Ferraillage", StartDate: domain.NewDate(2024, 1, 8), EndDate: domain.NewDate(2024, 1, 12)},
	{WorkPackageName: "Toiture", Title: "Charpente", StartDate: domain.NewDate(2024, 3, 1), EndDate: domain.NewDate(2024, 3, 8)},
}

func TestPlanReview_Accept(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, review := newReviewDriver(t, a, proj, samplePlan)

	out := stripANSI(d.View())
	assert.Contains(t, out, "Ferraillage")
	assert.Contains(t, out, "unknown lot")

	d.PressKey('y')
	assert.True(t, d.Quitting)
	require.NoError(t, review.Err)
	require.NotNil(t, review.Summary)
	assert.Equal(t, 1, review.Summary.Created)
	assert.Equal(t, 1, review.Summary.Excluded)

	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPlanReview_Decline(t *testing.T) {
	a := testApp(t)
	proj, gros, _ := seedSite(t, a)
	d, review := newReviewDriver(t, a, proj, samplePlan)

	d.PressKey('n')
	assert.True(t, d.Quitting)
	assert.True(t, review.Declined)
	assert.Nil(t, review.Summary)

	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
