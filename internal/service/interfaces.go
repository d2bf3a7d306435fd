package service

import (
	"context"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve looks a project up by short id first, then by full id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type CompanyService interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByName(ctx context.Context, name string) (*domain.Company, error)
	List(ctx context.Context) ([]*domain.Company, error)
}

type WorkPackageService interface {
	Create(ctx context.Context, w *domain.WorkPackage) error
	GetByID(ctx context.Context, id string) (*domain.WorkPackage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error)
	// AssignCompany sets or clears (empty companyID) the responsible company.
	AssignCompany(ctx context.Context, id, companyID string) error
	Delete(ctx context.Context, id string) error
}

// ScheduleService is the persistence collaborator the timeline commits to.
type ScheduleService interface {
	app.SchedulePort
	ListInterventions(ctx context.Context, workPackageID string) ([]*domain.SubIntervention, error)
}

type TimelineService interface {
	app.TimelineUseCase
}

type PlanService interface {
	app.PlanAcceptUseCase
}

type StatusService interface {
	app.StatusUseCase
}
