package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/timeline"
)

const statusProgressBarWidth = 12

// FormatStats renders the overlay counters on one line.
func FormatStats(s timeline.Stats) string {
	parts := []string{
		fmt.Sprintf("%d items", s.Total),
		StyleGreen.Render(fmt.Sprintf("%d completed", s.Completed)),
	}
	delayed := fmt.Sprintf("%d delayed", s.Delayed)
	if s.Delayed > 0 {
		parts = append(parts, StyleRed.Render(delayed))
	} else {
		parts = append(parts, Dim(delayed))
	}
	if s.Unscheduled > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d unscheduled", s.Unscheduled)))
	}
	return strings.Join(parts, Dim(" · "))
}

// FormatStatus renders a project status report: a progress header and one
// row per lot.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder

	s := resp.Stats
	b.WriteString(StyleHeader.Render(resp.Project.Name) + "  " + StyleGreen.Render(resp.Project.DisplayID()) + "\n")
	b.WriteString(RenderProgress(Percent(s.Completed, s.Total), statusProgressBarWidth, s.Delayed > 0))
	b.WriteString("  " + FormatStats(s) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%d lots, %d interventions, as of %s",
		s.WorkPackages, s.SubInterventions, resp.GeneratedAt.Format("2006-01-02"))) + "\n\n")

	if len(resp.Lots) == 0 {
		b.WriteString(Dim("No lots yet.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(resp.Lots))
	for _, l := range resp.Lots {
		flag := ""
		if l.Delayed {
			flag = StyleRed.Render("late")
		}
		company := l.CompanyName
		if company == "" {
			company = Dim("--")
		}
		rows = append(rows, []string{
			Bold(l.Lot.Name),
			StatusPill(string(l.Lot.Status)),
			FormatOptionalRange(l.Window),
			company,
			strconv.Itoa(l.Interventions),
			flag,
		})
	}
	b.WriteString(Table{
		Headers: []string{"LOT", "STATUS", "WINDOW", "COMPANY", "INTERVENTIONS", ""},
		Rows:    rows,
		Right:   map[int]bool{4: true},
	}.String())
	return b.String()
}
