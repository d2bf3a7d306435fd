package timeline

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// Filter narrows the work packages shown. Empty slices mean "no constraint".
type Filter struct {
	Statuses   []domain.WorkPackageStatus
	CompanyIDs []string
}

// IsZero reports whether the filter lets everything through.
func (f Filter) IsZero() bool {
	return len(f.Statuses) == 0 && len(f.CompanyIDs) == 0
}

// Matches reports whether lot passes the filter. When a company filter is
// set, lots without a responsible company are excluded.
func (f Filter) Matches(lot *domain.WorkPackage) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if lot.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.CompanyIDs) > 0 {
		if lot.CompanyID == nil {
			return false
		}
		ok := false
		for _, id := range f.CompanyIDs {
			if *lot.CompanyID == id {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Visible is the filtered, sorted subset that feeds the row layout.
type Visible struct {
	Lots     []*domain.WorkPackage
	Children map[string][]*domain.SubIntervention
}

// Apply derives the visible subset. Inputs are never modified; the returned
// slices are fresh.
func Apply(lots []*domain.WorkPackage, interventions []*domain.SubIntervention, f Filter) Visible {
	kept := make([]*domain.WorkPackage, 0, len(lots))
	ids := make(map[string]bool, len(lots))
	for _, lot := range lots {
		if f.Matches(lot) {
			kept = append(kept, lot)
			ids[lot.ID] = true
		}
	}

	grouped := make(map[string][]*domain.SubIntervention)
	for _, s := range interventions {
		if ids[s.WorkPackageID] {
			grouped[s.WorkPackageID] = append(grouped[s.WorkPackageID], s)
		}
	}
	for id, kids := range grouped {
		grouped[id] = SortSubInterventions(kids)
	}

	return Visible{Lots: SortWorkPackages(kept), Children: grouped}
}

// Stats are the summary counters shown above the timeline.
type Stats struct {
	Total            int
	Completed        int
	Delayed          int
	WorkPackages     int
	SubInterventions int
	Unscheduled      int
}

// ComputeStats counts work packages and sub-interventions together. An item
// is delayed when its status says so, or when its end date is before today
// and it is not completed.
func ComputeStats(v Visible, today time.Time) Stats {
	var s Stats
	for _, lot := range v.Lots {
		s.WorkPackages++
		if lot.IsCompleted() {
			s.Completed++
		}
		if lot.IsDelayed(today) {
			s.Delayed++
		}
		if !lot.Scheduled() {
			s.Unscheduled++
		}
		for _, sub := range v.Children[lot.ID] {
			s.SubInterventions++
			if sub.IsCompleted() {
				s.Completed++
			}
			if sub.IsDelayed(today) {
				s.Delayed++
			}
		}
	}
	s.Total = s.WorkPackages + s.SubInterventions
	return s
}
