package timeline

import "github.com/alexanderramin/chantier/internal/domain"

// Ticket identifies one issued commit.
type Ticket struct {
	ItemID string
	Kind   domain.ItemKind
	Range  domain.DateRange
	Seq    uint64
}

// Ledger tracks commits whose responses have not arrived yet. Responses may
// resolve in any order; only the latest commit per item decides what the
// timeline shows, so a slow earlier response never overwrites a later one.
//
// A Ledger is owned by a single event loop and is not safe for concurrent use.
type Ledger struct {
	next    uint64
	latest  map[string]uint64
	pending map[string]Ticket
}

func NewLedger() *Ledger {
	return &Ledger{
		latest:  make(map[string]uint64),
		pending: make(map[string]Ticket),
	}
}

// Issue records c as the newest commit for its item.
func (l *Ledger) Issue(c Commit) Ticket {
	l.next++
	t := Ticket{ItemID: c.ItemID, Kind: c.Kind, Range: c.Range, Seq: l.next}
	l.latest[c.ItemID] = t.Seq
	l.pending[c.ItemID] = t
	return t
}

// Resolve settles a response. It reports whether t is still the latest
// commit for its item; responses for superseded commits are ignored.
func (l *Ledger) Resolve(t Ticket) bool {
	if l.latest[t.ItemID] != t.Seq {
		return false
	}
	delete(l.pending, t.ItemID)
	delete(l.latest, t.ItemID)
	return true
}

// Pending returns the in-flight range for id, if any.
func (l *Ledger) Pending(id string) (domain.DateRange, bool) {
	t, ok := l.pending[id]
	return t.Range, ok
}

// InFlight is the number of items with an unresolved commit.
func (l *Ledger) InFlight() int {
	return len(l.pending)
}

// Overrides returns the pending ranges as an override layer.
func (l *Ledger) Overrides() Overrides {
	out := make(Overrides, len(l.pending))
	for id, t := range l.pending {
		out[id] = t.Range
	}
	return out
}

// ApplyPending returns copies of lots and interventions with in-flight
// ranges applied, so a refresh that raced a commit still shows the latest
// optimistic dates. Untouched items are shared, not copied.
func (l *Ledger) ApplyPending(lots []*domain.WorkPackage, interventions []*domain.SubIntervention) ([]*domain.WorkPackage, []*domain.SubIntervention) {
	outLots := make([]*domain.WorkPackage, len(lots))
	for i, lot := range lots {
		outLots[i] = lot
		if t, ok := l.pending[lot.ID]; ok && t.Kind == domain.KindWorkPackage {
			cp := *lot
			start, end := t.Range.Start, t.Range.End
			domain.WorkPackagePatch{StartDate: &start, EndDate: &end}.Apply(&cp)
			outLots[i] = &cp
		}
	}
	outSubs := make([]*domain.SubIntervention, len(interventions))
	for i, sub := range interventions {
		outSubs[i] = sub
		if t, ok := l.pending[sub.ID]; ok && t.Kind == domain.KindSubIntervention {
			cp := *sub
			start, end := t.Range.Start, t.Range.End
			domain.SubInterventionPatch{StartDate: &start, EndDate: &end}.Apply(&cp)
			outSubs[i] = &cp
		}
	}
	return outLots, outSubs
}
