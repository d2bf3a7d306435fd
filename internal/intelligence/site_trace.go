package intelligence

import (
	"encoding/json"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
)

// siteTrace is the JSON context handed to the model.
type siteTrace struct {
	Today         string              `json:"today"`
	Project       string              `json:"project"`
	Client        string              `json:"client,omitempty"`
	ProjectStart  string              `json:"project_start"`
	Lots          []lotTrace          `json:"lots"`
	Interventions []interventionTrace `json:"planned_interventions"`
	Brief         string              `json:"brief,omitempty"`
}

type lotTrace struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
}

type interventionTrace struct {
	Lot   string `json:"lot"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func buildSiteTrace(req app.PlanSuggestRequest) siteTrace {
	tr := siteTrace{
		Today: domain.FormatDate(req.Today),
		Brief: req.Brief,
	}
	if req.Project != nil {
		tr.Project = req.Project.Name
		tr.Client = req.Project.Client
		tr.ProjectStart = domain.FormatDate(req.Project.StartDate)
	}

	names := make(map[string]string, len(req.Lots))
	for _, lot := range req.Lots {
		names[lot.ID] = lot.Name
		lt := lotTrace{Name: lot.Name, Status: string(lot.Status)}
		if r, ok := lot.Range(); ok {
			s, e := domain.FormatDate(r.Start), domain.FormatDate(r.End)
			lt.Start, lt.End = &s, &e
		}
		tr.Lots = append(tr.Lots, lt)
	}
	for _, s := range req.Interventions {
		tr.Interventions = append(tr.Interventions, interventionTrace{
			Lot:   names[s.WorkPackageID],
			Title: s.Title,
			Start: domain.FormatDate(s.StartDate),
			End:   domain.FormatDate(s.EndDate),
		})
	}
	return tr
}

func (t siteTrace) JSON() string {
	data, _ := json.MarshalIndent(t, "", "  ")
	return string(data)
}
