package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
)

var exclusionLabels = map[app.ExclusionReason]string{
	app.ExcludedUnknownLot:   "unknown lot",
	app.ExcludedInvalidRange: "invalid dates",
	app.ExcludedMissingTitle: "missing title",
}

// ExclusionLabel is the human text for an exclusion reason.
func ExclusionLabel(r app.ExclusionReason) string {
	if s, ok := exclusionLabels[r]; ok {
		return s
	}
	return strings.ToLower(string(r))
}

func proposalDates(p domain.ProposedIntervention) string {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return Dim("?")
	}
	return FormatRange(domain.DateRange{Start: p.StartDate, End: p.EndDate})
}

// FormatPlanPreview lists what an acceptance would create and what it
// would drop.
func FormatPlanPreview(p *app.PlanPreview) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Proposed interventions (%d)", len(p.Accepted))) + "\n")
	if len(p.Accepted) == 0 {
		b.WriteString(Dim("Nothing to create.") + "\n")
	} else {
		rows := make([][]string, 0, len(p.Accepted))
		for _, m := range p.Accepted {
			rows = append(rows, []string{
				Swatch(m.Payload.Color),
				m.Proposal.WorkPackageName,
				Bold(m.Payload.Title),
				proposalDates(m.Proposal),
			})
		}
		b.WriteString(RenderTable([]string{"", "LOT", "TITLE", "DATES"}, rows))
	}

	if len(p.Excluded) > 0 {
		b.WriteString("\n" + Header(fmt.Sprintf("Excluded (%d)", len(p.Excluded))) + "\n")
		rows := make([][]string, 0, len(p.Excluded))
		for _, e := range p.Excluded {
			rows = append(rows, []string{
				StyleRed.Render(ExclusionLabel(e.Reason)),
				e.Proposal.WorkPackageName,
				e.Proposal.Title,
				proposalDates(e.Proposal),
			})
		}
		b.WriteString(RenderTable([]string{"REASON", "LOT", "TITLE", "DATES"}, rows))
	}
	return b.String()
}

// FormatAcceptance summarizes a bulk acceptance on one line.
func FormatAcceptance(s *app.AcceptanceSummary) string {
	line := fmt.Sprintf("%s Created %d interventions", StyleGreen.Render("✔"), s.Created)
	if s.Excluded == 0 {
		return line
	}
	reasons := make([]string, 0, len(s.Reasons))
	for r, n := range s.Reasons {
		reasons = append(reasons, fmt.Sprintf("%d %s", n, ExclusionLabel(r)))
	}
	sort.Strings(reasons)
	return line + ", " + StyleYellow.Render(fmt.Sprintf("%d excluded", s.Excluded)) +
		Dim(" ("+strings.Join(reasons, ", ")+")")
}
