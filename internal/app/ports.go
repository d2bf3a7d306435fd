package app

import (
	"context"

	"github.com/alexanderramin/chantier/internal/domain"
)

// SchedulePort is the persistence collaborator the timeline drives. Every
// call is fire-and-forget from the timeline's point of view: failures are
// surfaced to the user and never retried.
type SchedulePort interface {
	UpdateWorkPackage(ctx context.Context, id string, patch domain.WorkPackagePatch) error
	UpdateSubIntervention(ctx context.Context, id string, patch domain.SubInterventionPatch) error
	CreateSubIntervention(ctx context.Context, p domain.NewSubIntervention) (*domain.SubIntervention, error)
	// BulkCreateSubInterventions creates every payload or none.
	BulkCreateSubInterventions(ctx context.Context, ps []domain.NewSubIntervention) ([]*domain.SubIntervention, error)
	DeleteSubIntervention(ctx context.Context, id string) error
	BulkDeleteSubInterventions(ctx context.Context, ids []string) error
}

type TimelineUseCase interface {
	LoadTimeline(ctx context.Context, projectID string) (*TimelineData, error)
}

type PlanSuggestUseCase interface {
	Suggest(ctx context.Context, req PlanSuggestRequest) ([]domain.ProposedIntervention, error)
}

type PlanAcceptUseCase interface {
	Preview(ctx context.Context, projectID string, proposals []domain.ProposedIntervention) (*PlanPreview, error)
	Accept(ctx context.Context, projectID string, proposals []domain.ProposedIntervention) (*AcceptanceSummary, error)
}

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}
