package timeline

import "github.com/alexanderramin/chantier/internal/domain"

// Overrides maps item ids to speculative, uncommitted date ranges. Renderers
// always prefer an override over the persisted dates.
type Overrides map[string]domain.DateRange

// Get returns the override for id, if any.
func (o Overrides) Get(id string) (domain.DateRange, bool) {
	r, ok := o[id]
	return r, ok
}

// Effective returns the override for id when present, else persisted.
func (o Overrides) Effective(id string, persisted domain.DateRange) domain.DateRange {
	if r, ok := o[id]; ok {
		return r
	}
	return persisted
}

// with returns a copy of o with id set to r.
func (o Overrides) with(id string, r domain.DateRange) Overrides {
	out := make(Overrides, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[id] = r
	return out
}

// without returns a copy of o with id removed.
func (o Overrides) without(id string) Overrides {
	if _, ok := o[id]; !ok {
		return o
	}
	out := make(Overrides, len(o))
	for k, v := range o {
		if k != id {
			out[k] = v
		}
	}
	return out
}
