package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithClient(client string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = client
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: domain.Day(now.AddDate(0, -1, 0)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestCompany(name string) *domain.Company {
	return &domain.Company{
		ID:        uuid.New().String(),
		Name:      name,
		Trade:     "gros oeuvre",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// WorkPackage options
type WorkPackageOption func(*domain.WorkPackage)

// WithDates schedules the lot over [start, end].
func WithDates(start, end time.Time) WorkPackageOption {
	return func(w *domain.WorkPackage) {
		s, e := domain.Day(start), domain.Day(end)
		w.StartDate = &s
		w.EndDate = &e
	}
}

func WithLotStatus(s domain.WorkPackageStatus) WorkPackageOption {
	return func(w *domain.WorkPackage) {
		w.Status = s
	}
}

func WithCompany(id string) WorkPackageOption {
	return func(w *domain.WorkPackage) {
		w.CompanyID = &id
	}
}

func WithSortOrder(n int) WorkPackageOption {
	return func(w *domain.WorkPackage) {
		w.SortOrder = n
	}
}

func WithLotColor(c string) WorkPackageOption {
	return func(w *domain.WorkPackage) {
		w.Color = c
	}
}

func NewTestWorkPackage(projectID, name string, opts ...WorkPackageOption) *domain.WorkPackage {
	now := time.Now().UTC().Truncate(time.Second)
	w := &domain.WorkPackage{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.LotPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SubIntervention options
type SubInterventionOption func(*domain.SubIntervention)

func WithInterventionStatus(s domain.InterventionStatus) SubInterventionOption {
	return func(s2 *domain.SubIntervention) {
		s2.Status = s
	}
}

func WithTeamSize(n int) SubInterventionOption {
	return func(s *domain.SubIntervention) {
		s.TeamSize = n
	}
}

func WithCreatedAt(t time.Time) SubInterventionOption {
	return func(s *domain.SubIntervention) {
		s.CreatedAt = t
		s.UpdatedAt = t
	}
}

func NewTestSubIntervention(workPackageID, title string, start, end time.Time, opts ...SubInterventionOption) *domain.SubIntervention {
	now := time.Now().UTC()
	s := &domain.SubIntervention{
		ID:            uuid.New().String(),
		WorkPackageID: workPackageID,
		Title:         title,
		StartDate:     domain.Day(start),
		EndDate:       domain.Day(end),
		TeamSize:      domain.DefaultTeamSize,
		Status:        domain.InterventionPlanned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
