package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// newFilterFormView edits the status and company filter of the timeline.
func newFilterFormView(state *SharedState, current timeline.Filter, companies []*domain.Company) View {
	statuses := make([]string, len(current.Statuses))
	for i, s := range current.Statuses {
		statuses[i] = string(s)
	}
	companyIDs := append([]string(nil), current.CompanyIDs...)

	statusOpts := make([]huh.Option[string], len(domain.LotStatuses))
	for i, s := range domain.LotStatuses {
		statusOpts[i] = huh.NewOption(strings.ReplaceAll(string(s), "_", " "), string(s))
	}
	fields := []huh.Field{
		huh.NewMultiSelect[string]().
			Title("Statuses").
			Description("Nothing selected shows every status").
			Options(statusOpts...).
			Value(&statuses),
	}
	if len(companies) > 0 {
		companyOpts := make([]huh.Option[string], len(companies))
		for i, c := range companies {
			companyOpts[i] = huh.NewOption(c.Name, c.ID)
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Companies").
			Options(companyOpts...).
			Value(&companyIDs))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	done := func() tea.Cmd {
		return func() tea.Msg {
			var f timeline.Filter
			for _, s := range statuses {
				f.Statuses = append(f.Statuses, domain.WorkPackageStatus(s))
			}
			f.CompanyIDs = companyIDs
			return filterChosenMsg{filter: f}
		}
	}
	return newWizardView(state, "Filter", form, done)
}

// newRangesFormView creates several interventions with one title under one
// lot in a single bulk call.
func newRangesFormView(state *SharedState, lots []*domain.WorkPackage, preselect string) View {
	lotID := preselect
	var title, ranges, color string

	opts := make([]huh.Option[string], len(lots))
	for i, w := range lots {
		opts[i] = huh.NewOption(w.Name, w.ID)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Lot").
				Options(opts...).
				Value(&lotID),
			huh.NewInput().
				Title("Title").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Date ranges").
				Description("One per line: 2024-03-04:2024-03-08").
				Value(&ranges).
				Validate(func(s string) error {
					_, err := parseRanges(s)
					return err
				}),
			huh.NewInput().
				Title("Color (optional)").
				Placeholder("inherits the lot color").
				Value(&color),
		),
	)

	done := func() tea.Cmd {
		rs, err := parseRanges(ranges)
		if err != nil {
			return notifyErr(err)
		}
		return bulkCreateCmd(state.App.Schedule, rangePayloads(lotID, strings.TrimSpace(title), strings.TrimSpace(color), rs))
	}
	return newWizardView(state, "New interventions", form, done)
}

// newBulkDeleteConfirmView asks before removing every intervention of a lot.
func newBulkDeleteConfirmView(state *SharedState, lot *domain.WorkPackage, subs []*domain.SubIntervention) View {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d interventions of %s?", len(subs), lot.Name)).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed),
	))
	done := func() tea.Cmd {
		if !confirmed {
			return notify(notifyInfo, "Kept.")
		}
		ids := make([]string, len(subs))
		for i, s := range subs {
			ids[i] = s.ID
		}
		return bulkDeleteCmd(state.App.Schedule, ids, lot.Name)
	}
	return newWizardView(state, "Delete interventions", form, done)
}
