package timeline

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// PressOutcome reports what a pointer-down did.
type PressOutcome int

const (
	PressIgnored PressOutcome = iota
	PressDragStarted
	PressDraftOpened
)

// Board wires the coordinate mapper, layout, drag machine, inline creation
// and overlay around one set of loaded items. It is the state a timeline
// view owns; every method runs on the view's event loop.
type Board struct {
	Geometry Geometry
	View     ViewState
	SpanDays int
	Today    time.Time

	lots []*domain.WorkPackage
	subs []*domain.SubIntervention

	visible Visible
	layout  Layout
	machine Machine
	ledger  *Ledger
	draft   *Draft
}

func NewBoard(g Geometry, view ViewState, today time.Time) *Board {
	b := &Board{
		Geometry: g,
		View:     view,
		SpanDays: DefaultInlineSpanDays,
		Today:    domain.Day(today),
		ledger:   NewLedger(),
	}
	b.Recompute()
	return b
}

// SetData replaces the persisted items. In-flight commits are re-applied on
// top, and overrides of an active drag survive.
func (b *Board) SetData(lots []*domain.WorkPackage, subs []*domain.SubIntervention) {
	b.lots = append([]*domain.WorkPackage(nil), lots...)
	b.subs = append([]*domain.SubIntervention(nil), subs...)
	b.Recompute()
}

// Recompute derives the visible subset and layout. Call it after changing
// View.
func (b *Board) Recompute() {
	lots, subs := b.ledger.ApplyPending(b.lots, b.subs)
	b.visible = Apply(lots, subs, b.View.Filter)
	b.layout = ComputeLayout(b.visible.Lots, b.visible.Children, b.View, b.Geometry)
}

func (b *Board) DayWidth() int { return b.Geometry.DayWidth(b.View.Zoom) }
func (b *Board) Window() Window { return b.View.Window(b.Geometry) }
func (b *Board) Layout() Layout { return b.layout }
func (b *Board) Visible() Visible { return b.visible }
func (b *Board) Stats() Stats { return ComputeStats(b.visible, b.Today) }
func (b *Board) Dragging() bool { return b.machine.Dragging() }
func (b *Board) Session() *DragSession { return b.machine.Session }
func (b *Board) Draft() *Draft { return b.draft }
func (b *Board) InFlight() int { return b.ledger.InFlight() }

// Lots returns every loaded lot, unfiltered.
func (b *Board) Lots() []*domain.WorkPackage { return b.lots }

// Scene builds the current frame with drag overrides applied.
func (b *Board) Scene() Scene {
	return BuildScene(b.layout, b.Window(), b.DayWidth(), b.Geometry.HandleWidth, b.machine.Overrides)
}

// Press handles a pointer-down at surface point (x, y). A bar starts a drag;
// empty row space opens a draft when neither a drag nor a draft is active.
func (b *Board) Press(x, y int) (PressOutcome, Hit) {
	if b.machine.Dragging() {
		return PressIgnored, Hit{}
	}
	hit := b.Scene().HitTest(x, y)
	switch hit.Kind {
	case HitBar:
		if b.draft != nil {
			return PressIgnored, hit
		}
		b.machine, _ = b.machine.Reduce(PointerDown{Target: hit.Target(), X: x}, b.DayWidth())
		return PressDragStarted, hit
	case HitEmptyRow:
		d, err := OpenDraft(b.machine, b.draft, hit.Row.WorkPackage, x, hit.Row.Y, b.Window().Start, b.DayWidth(), b.SpanDays)
		if err != nil {
			return PressIgnored, hit
		}
		b.draft = d
		return PressDraftOpened, hit
	}
	return PressIgnored, hit
}

// Move feeds a pointer-move at surface x.
func (b *Board) Move(x int) {
	b.machine, _ = b.machine.Reduce(PointerMove{X: x}, b.DayWidth())
}

// Release ends the gesture. When it produced new dates, the commit is
// recorded in the ledger and returned for the caller to issue; the drag
// override is cleared at the same time.
func (b *Board) Release() *Ticket {
	var c *Commit
	b.machine, c = b.machine.Reduce(PointerUp{}, b.DayWidth())
	if c == nil {
		return nil
	}
	t := b.ledger.Issue(*c)
	b.machine = b.machine.Settle(c)
	b.Recompute()
	return &t
}

// Leave aborts the gesture; the item snaps back.
func (b *Board) Leave() {
	b.machine, _ = b.machine.Reduce(PointerLeave{}, b.DayWidth())
}

// Resolve settles the response for t. On success the committed range becomes
// the known-good value; on failure the item reverts to its persisted dates.
// It reports false for responses superseded by a later commit.
func (b *Board) Resolve(t Ticket, err error) bool {
	if !b.ledger.Resolve(t) {
		return false
	}
	if err == nil {
		b.applyCommitted(t)
	}
	b.Recompute()
	return true
}

func (b *Board) applyCommitted(t Ticket) {
	start, end := t.Range.Start, t.Range.End
	switch t.Kind {
	case domain.KindWorkPackage:
		for i, lot := range b.lots {
			if lot.ID == t.ItemID {
				cp := *lot
				domain.WorkPackagePatch{StartDate: &start, EndDate: &end}.Apply(&cp)
				b.lots[i] = &cp
			}
		}
	case domain.KindSubIntervention:
		for i, sub := range b.subs {
			if sub.ID == t.ItemID {
				cp := *sub
				domain.SubInterventionPatch{StartDate: &start, EndDate: &end}.Apply(&cp)
				b.subs[i] = &cp
			}
		}
	}
}

// SetDraftTitle edits the open draft's title.
func (b *Board) SetDraftTitle(title string) {
	if b.draft != nil {
		b.draft.Title = title
	}
}

// ConfirmDraft closes the draft and returns its create payload.
func (b *Board) ConfirmDraft(defaultTitle string) (domain.NewSubIntervention, bool) {
	if b.draft == nil {
		return domain.NewSubIntervention{}, false
	}
	p := b.draft.Payload(defaultTitle)
	b.draft = nil
	return p, true
}

// CancelDraft discards the draft with no side effect.
func (b *Board) CancelDraft() {
	b.draft = nil
}

// ToggleCollapse flips the collapse state of a lot and relayouts.
func (b *Board) ToggleCollapse(lotID string) bool {
	collapsed := b.View.Collapsed.Toggle(lotID)
	b.Recompute()
	return collapsed
}

// CollapseAll collapses every visible lot, or expands all when everything
// is already collapsed.
func (b *Board) CollapseAll() {
	all := true
	ids := make([]string, 0, len(b.visible.Lots))
	for _, lot := range b.visible.Lots {
		ids = append(ids, lot.ID)
		if !b.View.Collapsed.Has(lot.ID) {
			all = false
		}
	}
	if all {
		b.View.Collapsed.Clear()
	} else {
		b.View.Collapsed.CollapseAll(ids)
	}
	b.Recompute()
}

// Lot returns the loaded lot with id.
func (b *Board) Lot(id string) (*domain.WorkPackage, bool) {
	for _, lot := range b.lots {
		if lot.ID == id {
			return lot, true
		}
	}
	return nil, false
}

// Intervention returns the loaded sub-intervention with id.
func (b *Board) Intervention(id string) (*domain.SubIntervention, bool) {
	for _, sub := range b.subs {
		if sub.ID == id {
			return sub, true
		}
	}
	return nil, false
}

// InterventionsOf returns the loaded children of a lot in list order.
func (b *Board) InterventionsOf(lotID string) []*domain.SubIntervention {
	var out []*domain.SubIntervention
	for _, sub := range b.subs {
		if sub.WorkPackageID == lotID {
			out = append(out, sub)
		}
	}
	return SortSubInterventions(out)
}
