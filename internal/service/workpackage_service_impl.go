package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/google/uuid"
)

type workPackageService struct {
	uow      db.UnitOfWork
	lots     repository.WorkPackageRepo
	observer UseCaseObserver
}

func NewWorkPackageService(uow db.UnitOfWork, lots repository.WorkPackageRepo, observers ...UseCaseObserver) WorkPackageService {
	return &workPackageService{
		uow:      uow,
		lots:     lots,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create inserts a lot at the end of its project's ordering unless a sort
// order is given.
func (s *workPackageService) Create(ctx context.Context, w *domain.WorkPackage) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "create-work-package", startedAt, map[string]any{"project_id": w.ProjectID}, err)
	}()

	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("work package name is required")
	}
	if w.Status == "" {
		w.Status = domain.LotPending
	}
	if !w.Status.Valid() {
		return fmt.Errorf("unknown work package status %q", w.Status)
	}
	if r, ok := w.Range(); ok && !r.Valid() {
		return fmt.Errorf("work package %q: %w", w.Name, domain.ErrInvalidRange)
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	sortOrder := w.SortOrder
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLots := repository.NewSQLiteWorkPackageRepo(tx)
		w.SortOrder = sortOrder
		if w.SortOrder == 0 {
			next, err := txLots.NextSortOrder(ctx, w.ProjectID)
			if err != nil {
				return err
			}
			w.SortOrder = next
		}
		return txLots.Create(ctx, w)
	})
}

func (s *workPackageService) GetByID(ctx context.Context, id string) (*domain.WorkPackage, error) {
	return s.lots.GetByID(ctx, id)
}

func (s *workPackageService) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error) {
	return s.lots.ListByProject(ctx, projectID)
}

func (s *workPackageService) AssignCompany(ctx context.Context, id, companyID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLots := repository.NewSQLiteWorkPackageRepo(tx)
		w, err := txLots.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("work package %s: %w", id, err)
		}
		if companyID == "" {
			w.CompanyID = nil
		} else {
			if _, err := repository.NewSQLiteCompanyRepo(tx).GetByID(ctx, companyID); err != nil {
				return fmt.Errorf("company %s: %w", companyID, err)
			}
			w.CompanyID = &companyID
		}
		w.UpdatedAt = time.Now().UTC()
		return txLots.Update(ctx, w)
	})
}

func (s *workPackageService) Delete(ctx context.Context, id string) error {
	return s.lots.Delete(ctx, id)
}
