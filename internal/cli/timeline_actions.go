package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
)

// Every persistence call runs as a tea.Cmd off the event loop and reports
// back with one of these messages. Calls are never retried.

type timelineLoadedMsg struct {
	data *app.TimelineData
	err  error
}

type commitDoneMsg struct {
	ticket timeline.Ticket
	label  string
	err    error
}

// mutationDoneMsg reports any other write; the view reloads after it.
type mutationDoneMsg struct {
	success string
	err     error
}

// dataChangedMsg is raised when another process wrote the database.
type dataChangedMsg struct{}

type filterChosenMsg struct {
	filter timeline.Filter
}

func loadTimelineCmd(a *App, projectID string) tea.Cmd {
	return func() tea.Msg {
		data, err := a.Timeline.LoadTimeline(context.Background(), projectID)
		return timelineLoadedMsg{data: data, err: err}
	}
}

// commitCmd persists the dates of a finished drag.
func commitCmd(port app.SchedulePort, t timeline.Ticket, label string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start, end := t.Range.Start, t.Range.End
		var err error
		switch t.Kind {
		case domain.KindWorkPackage:
			err = port.UpdateWorkPackage(ctx, t.ItemID, domain.WorkPackagePatch{StartDate: &start, EndDate: &end})
		case domain.KindSubIntervention:
			err = port.UpdateSubIntervention(ctx, t.ItemID, domain.SubInterventionPatch{StartDate: &start, EndDate: &end})
		default:
			err = fmt.Errorf("unknown item kind %q", t.Kind)
		}
		return commitDoneMsg{ticket: t, label: label, err: err}
	}
}

func createInterventionCmd(port app.SchedulePort, p domain.NewSubIntervention) tea.Cmd {
	return func() tea.Msg {
		created, err := port.CreateSubIntervention(context.Background(), p)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{success: fmt.Sprintf("Created %q (%s)", created.Title, created.Range())}
	}
}

func bulkCreateCmd(port app.SchedulePort, ps []domain.NewSubIntervention) tea.Cmd {
	return func() tea.Msg {
		created, err := port.BulkCreateSubInterventions(context.Background(), ps)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{success: fmt.Sprintf("Created %d interventions", len(created))}
	}
}

func deleteInterventionCmd(port app.SchedulePort, id, title string) tea.Cmd {
	return func() tea.Msg {
		if err := port.DeleteSubIntervention(context.Background(), id); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{success: fmt.Sprintf("Deleted %q", title)}
	}
}

func bulkDeleteCmd(port app.SchedulePort, ids []string, lotName string) tea.Cmd {
	return func() tea.Msg {
		if err := port.BulkDeleteSubInterventions(context.Background(), ids); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{success: fmt.Sprintf("Deleted %d interventions of %s", len(ids), lotName)}
	}
}

func setLotStatusCmd(port app.SchedulePort, lot *domain.WorkPackage, status domain.WorkPackageStatus) tea.Cmd {
	return func() tea.Msg {
		err := port.UpdateWorkPackage(context.Background(), lot.ID, domain.WorkPackagePatch{Status: &status})
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{success: fmt.Sprintf("%s is now %s", lot.Name, strings.ReplaceAll(string(status), "_", " "))}
	}
}

// waitForChangeCmd blocks until the watcher fires. The view re-arms it after
// every change.
func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return dataChangedMsg{}
	}
}
