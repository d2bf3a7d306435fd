package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
)

type planService struct {
	lots     repository.WorkPackageRepo
	schedule app.SchedulePort
	observer UseCaseObserver
}

// NewPlanService maps externally proposed schedules onto a project's lots and
// bulk-creates the entries that map.
func NewPlanService(lots repository.WorkPackageRepo, schedule app.SchedulePort, observers ...UseCaseObserver) PlanService {
	return &planService{
		lots:     lots,
		schedule: schedule,
		observer: useCaseObserverOrNoop(observers),
	}
}

// MapProposal resolves each proposal's work package name against lots.
// Names match exactly after case folding and whitespace collapsing. Entries
// naming no known lot, with a blank title, or with start after end are
// excluded; the rest become create payloads in input order.
func MapProposal(lots []*domain.WorkPackage, proposals []domain.ProposedIntervention) *app.PlanPreview {
	byName := make(map[string]*domain.WorkPackage, len(lots))
	for _, lot := range lots {
		key := normalizeName(lot.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = lot
		}
	}

	preview := &app.PlanPreview{}
	for _, p := range proposals {
		lot, ok := byName[normalizeName(p.WorkPackageName)]
		switch {
		case !ok:
			preview.Excluded = append(preview.Excluded, app.ExcludedProposal{Proposal: p, Reason: app.ExcludedUnknownLot})
		case strings.TrimSpace(p.Title) == "":
			preview.Excluded = append(preview.Excluded, app.ExcludedProposal{Proposal: p, Reason: app.ExcludedMissingTitle})
		case p.StartDate.IsZero() || p.EndDate.IsZero() || domain.Day(p.StartDate).After(domain.Day(p.EndDate)):
			preview.Excluded = append(preview.Excluded, app.ExcludedProposal{Proposal: p, Reason: app.ExcludedInvalidRange})
		default:
			preview.Accepted = append(preview.Accepted, app.MappedProposal{
				Proposal: p,
				Payload: domain.NewSubIntervention{
					ParentID:  lot.ID,
					Title:     strings.TrimSpace(p.Title),
					StartDate: domain.Day(p.StartDate),
					EndDate:   domain.Day(p.EndDate),
					Color:     domain.InheritColor(p.Color, lot.Color),
				},
			})
		}
	}
	return preview
}

func (s *planService) Preview(ctx context.Context, projectID string, proposals []domain.ProposedIntervention) (*app.PlanPreview, error) {
	lots, err := s.lots.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading work packages: %w", err)
	}
	return MapProposal(lots, proposals), nil
}

// Accept creates every mapped entry in one bulk call. Excluded entries are
// dropped silently and only counted.
func (s *planService) Accept(ctx context.Context, projectID string, proposals []domain.ProposedIntervention) (summary *app.AcceptanceSummary, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "proposed": len(proposals)}
	defer func() { observe(ctx, s.observer, "accept-plan", startedAt, fields, err) }()

	preview, err := s.Preview(ctx, projectID, proposals)
	if err != nil {
		return nil, err
	}

	summary = &app.AcceptanceSummary{
		Excluded: len(preview.Excluded),
		Reasons:  make(map[app.ExclusionReason]int),
	}
	for _, ex := range preview.Excluded {
		summary.Reasons[ex.Reason]++
	}
	if len(preview.Accepted) > 0 {
		created, err := s.schedule.BulkCreateSubInterventions(ctx, preview.Payloads())
		if err != nil {
			return nil, fmt.Errorf("creating proposed interventions: %w", err)
		}
		summary.Created = len(created)
	}

	fields["created"] = summary.Created
	fields["excluded"] = summary.Excluded
	return summary, nil
}
