package cli

import (
	"fmt"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/render"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// timelineHeaderLines is the stats line plus the month header above the
// grid.
const timelineHeaderLines = 2

type timelineKeyMap struct {
	PanLeft, PanRight       key.Binding
	ScrollLeft, ScrollRight key.Binding
	Up, Down                key.Binding
	Today                   key.Binding
	ZoomIn, ZoomOut         key.Binding
	Mode                    key.Binding
	Collapse, CollapseAll   key.Binding
	Status                  key.Binding
	Delete, BulkDelete      key.Binding
	Filter, New, Refresh    key.Binding
}

func newTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		PanLeft:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "month")),
		PanRight:    key.NewBinding(key.WithKeys("right", "l")),
		ScrollLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "week")),
		ScrollRight: key.NewBinding(key.WithKeys("]")),
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		ZoomIn:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z/Z", "zoom")),
		ZoomOut:     key.NewBinding(key.WithKeys("Z")),
		Mode:        key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "lots only")),
		Collapse:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "fold")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "fold all")),
		Status:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Delete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x/X", "delete")),
		BulkDelete:  key.NewBinding(key.WithKeys("X")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// timelineView is the interactive Gantt surface of one project. It owns the
// board; everything mutating it runs on the bubbletea event loop.
type timelineView struct {
	state     *SharedState
	projectID string
	board     *timeline.Board
	data      *app.TimelineData
	loading   bool
	err       error

	labelWidth int
	scrollX    int
	scrollY    int
	cursor     int

	title   textinput.Model
	changes <-chan struct{}
	keys    timelineKeyMap
}

func newTimelineView(state *SharedState, projectID string, board *timeline.Board, labelWidth int, changes <-chan struct{}) *timelineView {
	ti := textinput.New()
	ti.Placeholder = timeline.DefaultDraftTitle
	ti.CharLimit = 120
	ti.Width = 40
	if labelWidth <= 0 {
		labelWidth = 24
	}
	v := &timelineView{
		state:      state,
		projectID:  projectID,
		board:      board,
		loading:    true,
		labelWidth: labelWidth,
		title:      ti,
		changes:    changes,
		keys:       newTimelineKeyMap(),
	}
	v.alignScroll()
	return v
}

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return "Timeline" }

func (v *timelineView) ShortHelp() []key.Binding {
	if v.board.Draft() != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		}
	}
	k := v.keys
	return []key.Binding{k.PanLeft, k.ZoomIn, k.Mode, k.Collapse, k.Status, k.Delete, k.Filter, k.New}
}

// CapturesInput is true while a draft title is being typed.
func (v *timelineView) CapturesInput() bool { return v.board.Draft() != nil }

func (v *timelineView) Init() tea.Cmd {
	return tea.Batch(v.load(), waitForChangeCmd(v.changes))
}

func (v *timelineView) load() tea.Cmd {
	return loadTimelineCmd(v.state.App, v.projectID)
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.alignScroll()
		return v, nil

	case timelineLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.data = msg.data
		v.state.Project = msg.data.Project
		v.board.SetData(msg.data.Lots, msg.data.Interventions)
		v.clampCursor()
		return v, nil

	case dataChangedMsg:
		return v, tea.Batch(v.load(), waitForChangeCmd(v.changes))

	case commitDoneMsg:
		if !v.board.Resolve(msg.ticket, msg.err) {
			// Superseded by a later commit of the same item.
			return v, nil
		}
		if msg.err != nil {
			return v, tea.Batch(notify(notifyError, fmt.Sprintf("Could not move %s: %v", msg.label, msg.err)), v.load())
		}
		return v, notify(notifySuccess, fmt.Sprintf("%s → %s", msg.label, msg.ticket.Range))

	case mutationDoneMsg:
		if msg.err != nil {
			return v, tea.Batch(notifyErr(msg.err), v.load())
		}
		return v, tea.Batch(notify(notifySuccess, msg.success), v.load())

	case filterChosenMsg:
		v.board.View.Filter = msg.filter
		v.board.Recompute()
		v.clampCursor()
		return v, nil

	case tea.MouseMsg:
		return v.handleMouse(msg)

	case tea.KeyMsg:
		if v.board.Draft() != nil {
			return v.updateDraft(msg)
		}
		return v.handleKey(msg)
	}

	if v.board.Draft() != nil {
		var cmd tea.Cmd
		v.title, cmd = v.title.Update(msg)
		return v, cmd
	}
	return v, nil
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (v *timelineView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.keys
	switch {
	case key.Matches(msg, k.PanLeft):
		v.board.View.PanMonths(-1)
		v.alignScroll()
	case key.Matches(msg, k.PanRight):
		v.board.View.PanMonths(1)
		v.alignScroll()
	case key.Matches(msg, k.ScrollLeft):
		v.scrollBy(-7 * v.board.DayWidth())
	case key.Matches(msg, k.ScrollRight):
		v.scrollBy(7 * v.board.DayWidth())
	case key.Matches(msg, k.Today):
		v.board.View.FocusOn(v.state.Today)
		v.alignScroll()
	case key.Matches(msg, k.ZoomIn):
		v.board.View.ZoomIn()
		v.alignScroll()
	case key.Matches(msg, k.ZoomOut):
		v.board.View.ZoomOut()
		v.alignScroll()
	case key.Matches(msg, k.Mode):
		v.board.View.ToggleMode()
		v.board.Recompute()
		v.clampCursor()
	case key.Matches(msg, k.Up):
		v.moveCursor(-1)
	case key.Matches(msg, k.Down):
		v.moveCursor(1)
	case key.Matches(msg, k.Collapse):
		if l, ok := v.cursorLine(); ok {
			v.board.ToggleCollapse(l.LotID)
			v.clampCursor()
		}
	case key.Matches(msg, k.CollapseAll):
		v.board.CollapseAll()
		v.clampCursor()
	case key.Matches(msg, k.Status):
		return v, v.cycleStatus()
	case key.Matches(msg, k.Delete):
		return v, v.deleteAtCursor()
	case key.Matches(msg, k.BulkDelete):
		return v, v.bulkDeleteAtCursor()
	case key.Matches(msg, k.Filter):
		var companies []*domain.Company
		if v.data != nil {
			companies = v.data.Companies
		}
		return v, pushView(newFilterFormView(v.state, v.board.View.Filter, companies))
	case key.Matches(msg, k.New):
		lots := v.board.Lots()
		if len(lots) == 0 {
			return v, notify(notifyInfo, "Add a lot first.")
		}
		pre := lots[0].ID
		if l, ok := v.cursorLine(); ok {
			pre = l.LotID
		}
		return v, pushView(newRangesFormView(v.state, timeline.SortWorkPackages(lots), pre))
	case key.Matches(msg, k.Refresh):
		return v, v.load()
	}
	return v, nil
}

func (v *timelineView) updateDraft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.board.CancelDraft()
		v.title.Blur()
		return v, nil
	case tea.KeyEnter:
		v.board.SetDraftTitle(v.title.Value())
		p, ok := v.board.ConfirmDraft(timeline.DefaultDraftTitle)
		v.title.Blur()
		if !ok {
			return v, nil
		}
		return v, createInterventionCmd(v.state.App.Schedule, p)
	}
	var cmd tea.Cmd
	v.title, cmd = v.title.Update(msg)
	v.board.SetDraftTitle(v.title.Value())
	return v, cmd
}

func (v *timelineView) cycleStatus() tea.Cmd {
	l, ok := v.cursorLine()
	if !ok {
		return nil
	}
	lot, ok := v.board.Lot(l.LotID)
	if !ok {
		return nil
	}
	return setLotStatusCmd(v.state.App.Schedule, lot, lot.Status.Next())
}

func (v *timelineView) deleteAtCursor() tea.Cmd {
	l, ok := v.cursorLine()
	if !ok || !l.Child {
		return notify(notifyInfo, "Select an intervention to delete.")
	}
	bar, ok := v.barAtLine(l.Y)
	if !ok {
		return nil
	}
	return deleteInterventionCmd(v.state.App.Schedule, bar.ItemID, bar.Label)
}

func (v *timelineView) bulkDeleteAtCursor() tea.Cmd {
	l, ok := v.cursorLine()
	if !ok {
		return nil
	}
	lot, ok := v.board.Lot(l.LotID)
	if !ok {
		return nil
	}
	subs := v.board.InterventionsOf(lot.ID)
	if len(subs) == 0 {
		return notify(notifyInfo, lot.Name+" has no interventions.")
	}
	return pushView(newBulkDeleteConfirmView(v.state, lot, subs))
}

// ── pointer ──────────────────────────────────────────────────────────────────

func (v *timelineView) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y, inGrid, inLabels := v.surfacePoint(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			v.scrollRows(-1)
			return v, nil
		case tea.MouseButtonWheelDown:
			v.scrollRows(1)
			return v, nil
		case tea.MouseButtonLeft:
		default:
			return v, nil
		}
		if inLabels {
			v.selectLine(y)
			if row, ok := v.board.Layout().RowAt(y); ok && row.Y == y {
				v.board.ToggleCollapse(row.WorkPackage.ID)
				v.clampCursor()
			}
			return v, nil
		}
		if !inGrid {
			return v, nil
		}
		outcome, _ := v.board.Press(x, y)
		switch outcome {
		case timeline.PressDraftOpened:
			v.title.Reset()
			return v, v.title.Focus()
		case timeline.PressDragStarted:
			v.selectLine(y)
		}
		return v, nil

	case tea.MouseActionMotion:
		if !v.board.Dragging() {
			return v, nil
		}
		if !inGrid {
			v.board.Leave()
			return v, notify(notifyInfo, "Drag cancelled.")
		}
		v.board.Move(x)
		return v, nil

	case tea.MouseActionRelease:
		if !v.board.Dragging() {
			return v, nil
		}
		if !inGrid {
			v.board.Leave()
			return v, nil
		}
		v.board.Move(x)
		label := v.draggedLabel()
		t := v.board.Release()
		if t == nil {
			return v, nil
		}
		return v, commitCmd(v.state.App.Schedule, *t, label)
	}
	return v, nil
}

func (v *timelineView) draggedLabel() string {
	s := v.board.Session()
	if s == nil {
		return ""
	}
	if lot, ok := v.board.Lot(s.ItemID); ok {
		return lot.Name
	}
	if sub, ok := v.board.Intervention(s.ItemID); ok {
		return sub.Title
	}
	return s.ItemID
}

// surfacePoint converts a terminal cell to surface coordinates. inGrid is
// set over the timeline cells of an existing row, inLabels over the label
// column of one.
func (v *timelineView) surfacePoint(sx, sy int) (x, y int, inGrid, inLabels bool) {
	gx := sx - v.labelCols()
	gy := sy - appHeaderLines - timelineHeaderLines
	x, y = gx+v.scrollX, gy+v.scrollY
	inRows := gy >= 0 && gy < v.gridRows() && y < v.board.Layout().TotalHeight
	inGrid = inRows && gx >= 0 && gx < v.gridWidth()
	inLabels = inRows && sx >= 0 && gx < 0
	return x, y, inGrid, inLabels
}

// ── scrolling and selection ──────────────────────────────────────────────────

func (v *timelineView) labelCols() int { return v.labelWidth + 1 }

func (v *timelineView) gridWidth() int {
	return max(v.state.ContentWidth()-v.labelCols(), 1)
}

// gridRows leaves one line under the grid for the detail or draft line.
func (v *timelineView) gridRows() int {
	return max(v.state.ContentHeight()-timelineHeaderLines-1, 1)
}

func (v *timelineView) surfaceWidth() int {
	return v.board.Window().Width(v.board.DayWidth())
}

// alignScroll puts the focus month at the left edge when it fits.
func (v *timelineView) alignScroll() {
	win := v.board.Window()
	v.scrollX = timeline.PositionForDate(v.board.View.FocusMonth, win.Start, v.board.DayWidth())
	v.scrollBy(0)
}

func (v *timelineView) scrollBy(dx int) {
	v.scrollX = min(max(v.scrollX+dx, 0), max(v.surfaceWidth()-v.gridWidth(), 0))
}

func (v *timelineView) scrollRows(dy int) {
	v.scrollY = min(max(v.scrollY+dy, 0), max(v.board.Layout().TotalHeight-v.gridRows(), 0))
}

func (v *timelineView) lines() []render.RowLabel {
	return render.RowLabels(v.board.Layout())
}

func (v *timelineView) cursorLine() (render.RowLabel, bool) {
	ls := v.lines()
	if v.cursor < 0 || v.cursor >= len(ls) {
		return render.RowLabel{}, false
	}
	return ls[v.cursor], true
}

func (v *timelineView) moveCursor(d int) {
	v.cursor += d
	v.clampCursor()
}

func (v *timelineView) selectLine(y int) {
	for i, l := range v.lines() {
		if l.Y == y {
			v.cursor = i
			return
		}
	}
}

// clampCursor keeps the cursor on an existing line and scrolls it into view.
func (v *timelineView) clampCursor() {
	ls := v.lines()
	v.cursor = min(max(v.cursor, 0), max(len(ls)-1, 0))
	if len(ls) == 0 {
		v.scrollY = 0
		return
	}
	y := ls[v.cursor].Y
	if y < v.scrollY {
		v.scrollY = y
	}
	if y >= v.scrollY+v.gridRows() {
		v.scrollY = y - v.gridRows() + 1
	}
	v.scrollRows(0)
}

func (v *timelineView) barAtLine(y int) (timeline.Bar, bool) {
	for _, b := range v.board.Scene().Bars {
		if b.Y == y {
			return b, true
		}
	}
	return timeline.Bar{}, false
}
