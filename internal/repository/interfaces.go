package repository

import (
	"context"

	"github.com/alexanderramin/chantier/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetBySiteCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type CompanyRepo interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	GetByName(ctx context.Context, name string) (*domain.Company, error)
	List(ctx context.Context) ([]*domain.Company, error)
}

type WorkPackageRepo interface {
	Create(ctx context.Context, w *domain.WorkPackage) error
	GetByID(ctx context.Context, id string) (*domain.WorkPackage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error)
	NextSortOrder(ctx context.Context, projectID string) (int, error)
	Update(ctx context.Context, w *domain.WorkPackage) error
	Delete(ctx context.Context, id string) error
}

type SubInterventionRepo interface {
	Create(ctx context.Context, s *domain.SubIntervention) error
	GetByID(ctx context.Context, id string) (*domain.SubIntervention, error)
	ListByWorkPackage(ctx context.Context, workPackageID string) ([]*domain.SubIntervention, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SubIntervention, error)
	Update(ctx context.Context, s *domain.SubIntervention) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
}
