package service

import (
	"context"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
)

type statusService struct {
	timelines app.TimelineUseCase
}

func NewStatusService(timelines app.TimelineUseCase) StatusService {
	return &statusService{timelines: timelines}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}
	today := domain.Day(now)

	data, err := s.timelines.LoadTimeline(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	visible := timeline.Apply(data.Lots, data.Interventions, timeline.Filter{})
	resp := &app.StatusResponse{
		Project:     data.Project,
		GeneratedAt: now,
		Stats:       timeline.ComputeStats(visible, today),
		Lots:        make([]app.LotStatusView, 0, len(visible.Lots)),
	}
	for _, lot := range visible.Lots {
		kids := visible.Children[lot.ID]
		resp.Lots = append(resp.Lots, app.LotStatusView{
			Lot:           lot,
			CompanyName:   data.CompanyName(lot.CompanyIDOrEmpty()),
			Interventions: len(kids),
			Delayed:       lot.IsDelayed(today),
			Window:        lotWindow(lot, kids),
		})
	}
	return resp, nil
}

// lotWindow returns the lot's own range or, for an unscheduled lot, the span
// covered by its interventions. Nil when neither exists.
func lotWindow(lot *domain.WorkPackage, kids []*domain.SubIntervention) *domain.DateRange {
	if r, ok := lot.Range(); ok {
		return &r
	}
	if len(kids) == 0 {
		return nil
	}
	r := kids[0].Range()
	for _, k := range kids[1:] {
		if k.StartDate.Before(r.Start) {
			r.Start = k.StartDate
		}
		if k.EndDate.After(r.End) {
			r.End = k.EndDate
		}
	}
	return &r
}
