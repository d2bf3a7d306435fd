package app

import "github.com/alexanderramin/chantier/internal/domain"

// TimelineData is everything the timeline needs for one project.
type TimelineData struct {
	Project       *domain.Project
	Lots          []*domain.WorkPackage
	Interventions []*domain.SubIntervention
	Companies     []*domain.Company
}

// CompanyName returns the name of the company with id, or "".
func (d *TimelineData) CompanyName(id string) string {
	for _, c := range d.Companies {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
