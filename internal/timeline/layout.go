package timeline

import (
	"sort"

	"github.com/alexanderramin/chantier/internal/domain"
)

// Row is the vertical placement of one work package and its visible children.
type Row struct {
	WorkPackage *domain.WorkPackage
	Y           int
	Height      int
	// Children are the visible sub-interventions in list order; empty when
	// collapsed or hidden by the view mode.
	Children   []*domain.SubIntervention
	ChildCount int
	Expanded   bool
}

// Layout is the result of a row layout pass.
type Layout struct {
	Rows           []Row
	TotalHeight    int
	BaseRowHeight  int
	ChildRowHeight int
}

// ChildY returns the y offset of the index-th child row of r.
func (l Layout) ChildY(r Row, index int) int {
	return r.Y + l.BaseRowHeight + index*l.ChildRowHeight
}

// RowAt returns the row containing y, if any.
func (l Layout) RowAt(y int) (Row, bool) {
	if y < 0 {
		return Row{}, false
	}
	// Rows are contiguous and ascending in Y.
	i := sort.Search(len(l.Rows), func(i int) bool {
		return l.Rows[i].Y+l.Rows[i].Height > y
	})
	if i < len(l.Rows) && l.Rows[i].Y <= y {
		return l.Rows[i], true
	}
	return Row{}, false
}

// ComputeLayout walks lots in order with a running y cursor. A row is
// expanded only if the view mode shows children, the lot has at least one
// child, and it is not collapsed.
func ComputeLayout(lots []*domain.WorkPackage, children map[string][]*domain.SubIntervention, view ViewState, g Geometry) Layout {
	l := Layout{
		Rows:           make([]Row, 0, len(lots)),
		BaseRowHeight:  g.BaseRowHeight,
		ChildRowHeight: g.ChildRowHeight,
	}
	cursor := 0
	for _, lot := range lots {
		kids := children[lot.ID]
		show := view.ShowsChildren() && len(kids) > 0 && !view.Collapsed.Has(lot.ID)

		row := Row{
			WorkPackage: lot,
			Y:           cursor,
			Height:      g.BaseRowHeight,
			ChildCount:  len(kids),
			Expanded:    show,
		}
		if show {
			row.Height += len(kids) * g.ChildRowHeight
			row.Children = kids
		}
		l.Rows = append(l.Rows, row)
		cursor += row.Height
	}
	l.TotalHeight = cursor
	return l
}

// SortWorkPackages returns lots ordered by start date ascending with
// unscheduled lots last, ties broken by sort order, then name and id. The
// input slice is not modified.
func SortWorkPackages(lots []*domain.WorkPackage) []*domain.WorkPackage {
	out := make([]*domain.WorkPackage, len(lots))
	copy(out, lots)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.StartDate == nil) != (b.StartDate == nil) {
			return a.StartDate != nil
		}
		if a.StartDate != nil && !a.StartDate.Equal(*b.StartDate) {
			return a.StartDate.Before(*b.StartDate)
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

// SortSubInterventions returns children in creation order (ties by id).
func SortSubInterventions(items []*domain.SubIntervention) []*domain.SubIntervention {
	out := make([]*domain.SubIntervention, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
