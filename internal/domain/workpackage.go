package domain

import "time"

// WorkPackage is a "lot": a top-level schedulable unit of construction work.
// Both dates are optional; a lot without them is unscheduled and has no bar.
type WorkPackage struct {
	ID        string
	ProjectID string
	Name      string
	Status    WorkPackageStatus
	StartDate *time.Time
	EndDate   *time.Time
	Color     string
	SortOrder int
	CompanyID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scheduled reports whether both dates are set.
func (w *WorkPackage) Scheduled() bool {
	return w.StartDate != nil && w.EndDate != nil
}

// Range returns the persisted date range and whether the lot is scheduled.
func (w *WorkPackage) Range() (DateRange, bool) {
	if !w.Scheduled() {
		return DateRange{}, false
	}
	return DateRange{Start: *w.StartDate, End: *w.EndDate}, true
}

// IsCompleted reports whether the lot is finished.
func (w *WorkPackage) IsCompleted() bool {
	return w.Status == LotCompleted
}

// IsDelayed reports whether the lot is flagged delayed or has run past its
// end date without completing. Unscheduled lots are never overdue.
func (w *WorkPackage) IsDelayed(today time.Time) bool {
	if w.Status == LotDelayed {
		return true
	}
	if w.EndDate == nil || w.IsCompleted() {
		return false
	}
	return Day(*w.EndDate).Before(Day(today))
}

// CompanyIDOrEmpty returns the responsible company id, or "".
func (w *WorkPackage) CompanyIDOrEmpty() string {
	return Deref(w.CompanyID, "")
}

// WorkPackagePatch carries the optional fields an update may change.
type WorkPackagePatch struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *WorkPackageStatus
}

// Empty reports whether the patch changes nothing.
func (p WorkPackagePatch) Empty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Status == nil
}

// Apply copies the patch onto w. Callers validate the resulting range.
func (p WorkPackagePatch) Apply(w *WorkPackage) {
	if p.StartDate != nil {
		d := Day(*p.StartDate)
		w.StartDate = &d
	}
	if p.EndDate != nil {
		d := Day(*p.EndDate)
		w.EndDate = &d
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
}
