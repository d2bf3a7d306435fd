package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	uow           db.UnitOfWork
	interventions repository.SubInterventionRepo
	observer      UseCaseObserver
}

// NewScheduleService returns the persistence collaborator behind timeline
// commits, inline creation and bulk operations. Every write runs in its own
// transaction; concurrent edits from other processes follow last-write-wins.
func NewScheduleService(
	uow db.UnitOfWork,
	interventions repository.SubInterventionRepo,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		uow:           uow,
		interventions: interventions,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) UpdateWorkPackage(ctx context.Context, id string, patch domain.WorkPackagePatch) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"work_package_id": id}
	defer func() { observe(ctx, s.observer, "update-work-package", startedAt, fields, err) }()

	if patch.Empty() {
		return nil
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("unknown work package status %q", *patch.Status)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		lots := repository.NewSQLiteWorkPackageRepo(tx)
		w, err := lots.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("work package %s: %w", id, err)
		}
		patch.Apply(w)
		if r, ok := w.Range(); ok {
			if !r.Valid() {
				return fmt.Errorf("work package %s: %w", id, domain.ErrInvalidRange)
			}
			fields["range"] = r.String()
		}
		w.UpdatedAt = time.Now().UTC()
		return lots.Update(ctx, w)
	})
}

func (s *scheduleService) UpdateSubIntervention(ctx context.Context, id string, patch domain.SubInterventionPatch) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"sub_intervention_id": id}
	defer func() { observe(ctx, s.observer, "update-sub-intervention", startedAt, fields, err) }()

	if patch.Empty() {
		return nil
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subs := repository.NewSQLiteSubInterventionRepo(tx)
		sub, err := subs.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("sub-intervention %s: %w", id, err)
		}
		patch.Apply(sub)
		if !sub.Range().Valid() {
			return fmt.Errorf("sub-intervention %s: %w", id, domain.ErrInvalidRange)
		}
		fields["range"] = sub.Range().String()
		sub.UpdatedAt = time.Now().UTC()
		return subs.Update(ctx, sub)
	})
}

func (s *scheduleService) CreateSubIntervention(ctx context.Context, p domain.NewSubIntervention) (created *domain.SubIntervention, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"work_package_id": p.ParentID}
	defer func() { observe(ctx, s.observer, "create-sub-intervention", startedAt, fields, err) }()

	out, err := s.createAll(ctx, []domain.NewSubIntervention{p})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// BulkCreateSubInterventions validates every payload before writing, then
// inserts them all in one transaction.
func (s *scheduleService) BulkCreateSubInterventions(ctx context.Context, ps []domain.NewSubIntervention) (created []*domain.SubIntervention, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"count": len(ps)}
	defer func() { observe(ctx, s.observer, "bulk-create-sub-interventions", startedAt, fields, err) }()

	if len(ps) == 0 {
		return nil, nil
	}
	return s.createAll(ctx, ps)
}

func (s *scheduleService) createAll(ctx context.Context, ps []domain.NewSubIntervention) ([]*domain.SubIntervention, error) {
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			if len(ps) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	var out []*domain.SubIntervention
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		// A busy replay starts over, so rows from a rolled-back attempt
		// must not leak into the result.
		out = make([]*domain.SubIntervention, 0, len(ps))
		lots := repository.NewSQLiteWorkPackageRepo(tx)
		subs := repository.NewSQLiteSubInterventionRepo(tx)
		parents := make(map[string]*domain.WorkPackage)

		for _, p := range ps {
			parent, ok := parents[p.ParentID]
			if !ok {
				var err error
				parent, err = lots.GetByID(ctx, p.ParentID)
				if err != nil {
					return fmt.Errorf("parent work package %s: %w", p.ParentID, err)
				}
				parents[p.ParentID] = parent
			}
			sub := newSubIntervention(p, parent, time.Now().UTC())
			if err := subs.Create(ctx, sub); err != nil {
				return err
			}
			out = append(out, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// newSubIntervention builds the row for p. An empty color inherits the
// parent's.
func newSubIntervention(p domain.NewSubIntervention, parent *domain.WorkPackage, now time.Time) *domain.SubIntervention {
	return &domain.SubIntervention{
		ID:            uuid.New().String(),
		WorkPackageID: parent.ID,
		Title:         p.Title,
		StartDate:     domain.Day(p.StartDate),
		EndDate:       domain.Day(p.EndDate),
		Color:         domain.InheritColor(p.Color, parent.Color),
		TeamSize:      domain.Deref(p.TeamSize, domain.DefaultTeamSize),
		Status:        domain.InterventionPlanned,
		Description:   domain.Deref(p.Description, ""),
		Notes:         domain.Deref(p.Notes, ""),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *scheduleService) DeleteSubIntervention(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "delete-sub-intervention", startedAt, map[string]any{"sub_intervention_id": id}, err)
	}()
	return s.interventions.Delete(ctx, id)
}

// BulkDeleteSubInterventions removes the listed interventions in one
// transaction. Ids that no longer exist are skipped.
func (s *scheduleService) BulkDeleteSubInterventions(ctx context.Context, ids []string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"requested": len(ids)}
	defer func() { observe(ctx, s.observer, "bulk-delete-sub-interventions", startedAt, fields, err) }()

	if len(ids) == 0 {
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteSubInterventionRepo(tx).DeleteMany(ctx, ids)
		fields["deleted"] = n
		return err
	})
}

func (s *scheduleService) ListInterventions(ctx context.Context, workPackageID string) ([]*domain.SubIntervention, error) {
	return s.interventions.ListByWorkPackage(ctx, workPackageID)
}
