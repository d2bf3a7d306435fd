package app

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
)

type StatusRequest struct {
	ProjectID string
	// Now defaults to the current date.
	Now *time.Time
}

type LotStatusView struct {
	Lot           *domain.WorkPackage
	CompanyName   string
	Interventions int
	Delayed       bool
	// Window is the lot's own range, or the span of its interventions when
	// the lot is unscheduled.
	Window *domain.DateRange
}

type StatusResponse struct {
	Project     *domain.Project
	GeneratedAt time.Time
	Stats       timeline.Stats
	Lots        []LotStatusView
}
