package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTeamSize is used when a create payload omits team_size.
const DefaultTeamSize = 1

// SubIntervention is a scheduled activity nested under exactly one work package.
type SubIntervention struct {
	ID            string
	WorkPackageID string
	Title         string
	StartDate     time.Time
	EndDate       time.Time
	Color         string
	TeamSize      int
	Status        InterventionStatus
	Description   string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Range returns the intervention's date range.
func (s *SubIntervention) Range() DateRange {
	return DateRange{Start: s.StartDate, End: s.EndDate}
}

func (s *SubIntervention) IsCompleted() bool {
	return s.Status == InterventionCompleted
}

// IsDelayed reports whether the intervention is flagged delayed or has run
// past its end date without completing.
func (s *SubIntervention) IsDelayed(today time.Time) bool {
	if s.Status == InterventionDelayed {
		return true
	}
	if s.IsCompleted() {
		return false
	}
	return Day(s.EndDate).Before(Day(today))
}

// SubInterventionPatch carries the optional date fields an update may change.
type SubInterventionPatch struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (p SubInterventionPatch) Empty() bool {
	return p.StartDate == nil && p.EndDate == nil
}

// Apply copies the patch onto s. Callers validate the resulting range.
func (p SubInterventionPatch) Apply(s *SubIntervention) {
	if p.StartDate != nil {
		s.StartDate = Day(*p.StartDate)
	}
	if p.EndDate != nil {
		s.EndDate = Day(*p.EndDate)
	}
}

// NewSubIntervention is the create payload for a sub-intervention.
type NewSubIntervention struct {
	ParentID    string
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Color       string
	TeamSize    *int
	Description *string
	Notes       *string
}

// Validate checks the payload's required fields and range invariant.
func (n NewSubIntervention) Validate() error {
	if n.ParentID == "" {
		return fmt.Errorf("parent work package is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if n.StartDate.IsZero() || n.EndDate.IsZero() {
		return ErrMissingDates
	}
	if Day(n.StartDate).After(Day(n.EndDate)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(n.StartDate), FormatDate(n.EndDate))
	}
	if n.TeamSize != nil && *n.TeamSize < 1 {
		return fmt.Errorf("team size must be at least 1, got %d", *n.TeamSize)
	}
	return nil
}

// ProposedIntervention is one entry of an externally generated schedule. It
// names its work package rather than referencing it by id.
type ProposedIntervention struct {
	WorkPackageName string
	Title           string
	StartDate       time.Time
	EndDate         time.Time
	Color           string
}

// InheritColor is own, or parent when own is empty. Interventions created
// without a color take their lot's.
func InheritColor(own, parent string) string {
	if own != "" {
		return own
	}
	return parent
}
