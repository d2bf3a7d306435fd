package formatter

import (
	"strconv"

	"github.com/alexanderramin/chantier/internal/domain"
)

// FormatProjectList renders the projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		client := p.Client
		if client == "" {
			client = Dim("--")
		}
		rows = append(rows, []string{
			StyleGreen.Render(p.DisplayID()),
			Bold(p.Name),
			client,
			domain.FormatDate(p.StartDate),
		})
	}
	return RenderBox("Projects", RenderTable([]string{"ID", "NAME", "CLIENT", "START"}, rows))
}

func FormatCompanyList(companies []*domain.Company) string {
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		trade := c.Trade
		if trade == "" {
			trade = Dim("--")
		}
		rows = append(rows, []string{Bold(c.Name), trade, Swatch(c.Color)})
	}
	return RenderTable([]string{"NAME", "TRADE", "COLOR"}, rows)
}

// FormatLotList renders lots in timeline order. companyName resolves the
// responsible company; children counts interventions per lot.
func FormatLotList(lots []*domain.WorkPackage, companyName func(id string) string, children map[string]int) string {
	rows := make([][]string, 0, len(lots))
	for _, w := range lots {
		var r *domain.DateRange
		if dr, ok := w.Range(); ok {
			r = &dr
		}
		company := companyName(w.CompanyIDOrEmpty())
		if company == "" {
			company = Dim("--")
		}
		rows = append(rows, []string{
			Swatch(w.Color),
			Bold(w.Name),
			StatusPill(string(w.Status)),
			FormatOptionalRange(r),
			company,
			strconv.Itoa(children[w.ID]),
		})
	}
	return Table{
		Headers: []string{"", "LOT", "STATUS", "DATES", "COMPANY", "INTERVENTIONS"},
		Rows:    rows,
		Right:   map[int]bool{5: true},
	}.String()
}

// FormatInterventionList renders the interventions of one lot.
func FormatInterventionList(items []*domain.SubIntervention) string {
	if len(items) == 0 {
		return Dim("No interventions.") + "\n"
	}
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Title),
			StatusPill(string(s.Status)),
			FormatRange(s.Range()),
			strconv.Itoa(s.TeamSize),
		})
	}
	return Table{
		Headers: []string{"ID", "TITLE", "STATUS", "DATES", "TEAM"},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}.String()
}
