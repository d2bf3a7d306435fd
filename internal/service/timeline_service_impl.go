package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/repository"
	"golang.org/x/sync/errgroup"
)

type timelineService struct {
	projects      repository.ProjectRepo
	lots          repository.WorkPackageRepo
	interventions repository.SubInterventionRepo
	companies     repository.CompanyRepo
	observer      UseCaseObserver
}

func NewTimelineService(
	projects repository.ProjectRepo,
	lots repository.WorkPackageRepo,
	interventions repository.SubInterventionRepo,
	companies repository.CompanyRepo,
	observers ...UseCaseObserver,
) TimelineService {
	return &timelineService{
		projects:      projects,
		lots:          lots,
		interventions: interventions,
		companies:     companies,
		observer:      useCaseObserverOrNoop(observers),
	}
}

// LoadTimeline reads a project's lots, interventions and the company
// directory concurrently.
func (s *timelineService) LoadTimeline(ctx context.Context, projectID string) (data *app.TimelineData, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "load-timeline", startedAt, fields, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", projectID, err)
	}

	data = &app.TimelineData{Project: project}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lots, err := s.lots.ListByProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("loading work packages: %w", err)
		}
		data.Lots = lots
		return nil
	})
	g.Go(func() error {
		subs, err := s.interventions.ListByProject(gctx, projectID)
		if err != nil {
			return fmt.Errorf("loading sub-interventions: %w", err)
		}
		data.Interventions = subs
		return nil
	})
	g.Go(func() error {
		companies, err := s.companies.List(gctx)
		if err != nil {
			return fmt.Errorf("loading companies: %w", err)
		}
		data.Companies = companies
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fields["work_packages"] = len(data.Lots)
	fields["sub_interventions"] = len(data.Interventions)
	return data, nil
}

