package cli

import (
	"context"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type planAcceptedMsg struct {
	summary *app.AcceptanceSummary
	err     error
}

// planReviewView shows a proposed schedule and accepts it in one bulk call
// or discards it. As the root view it quits once decided.
type planReviewView struct {
	state     *SharedState
	projectID string
	proposals []domain.ProposedIntervention
	preview   *app.PlanPreview
	root      bool

	vp       viewport.Model
	ready    bool
	working  bool
	Summary  *app.AcceptanceSummary
	Declined bool
	Err      error

	accept, decline key.Binding
}

func newPlanReviewView(state *SharedState, projectID string, proposals []domain.ProposedIntervention, preview *app.PlanPreview, root bool) *planReviewView {
	return &planReviewView{
		state:     state,
		projectID: projectID,
		proposals: proposals,
		preview:   preview,
		root:      root,
		accept:    key.NewBinding(key.WithKeys("y", "a"), key.WithHelp("y", "accept all")),
		decline:   key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "discard")),
	}
}

func (v *planReviewView) ID() ViewID    { return ViewPlanReview }
func (v *planReviewView) Title() string { return "Plan review" }
func (v *planReviewView) ShortHelp() []key.Binding {
	return []key.Binding{v.accept, v.decline,
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll"))}
}

func (v *planReviewView) Init() tea.Cmd { return nil }

func (v *planReviewView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize()
		return v, nil

	case planAcceptedMsg:
		v.working = false
		v.Summary, v.Err = msg.summary, msg.err
		if msg.err != nil {
			return v, notifyErr(msg.err)
		}
		return v, v.finish(notify(notifySuccess, formatter.FormatAcceptance(msg.summary)))

	case tea.KeyMsg:
		if v.working {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.accept):
			if len(v.preview.Accepted) == 0 {
				return v, notify(notifyInfo, "Nothing to accept.")
			}
			v.working = true
			return v, v.acceptCmd()
		case key.Matches(msg, v.decline):
			v.Declined = true
			return v, v.finish(notify(notifyInfo, "Proposal discarded."))
		}
	}

	if !v.ready {
		v.resize()
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *planReviewView) finish(then tea.Cmd) tea.Cmd {
	if v.root {
		return func() tea.Msg { return quitMsg{} }
	}
	return tea.Batch(popView(), then)
}

func (v *planReviewView) acceptCmd() tea.Cmd {
	plans := v.state.App.Plans
	projectID, proposals := v.projectID, v.proposals
	return func() tea.Msg {
		s, err := plans.Accept(context.Background(), projectID, proposals)
		return planAcceptedMsg{summary: s, err: err}
	}
}

func (v *planReviewView) resize() {
	w, h := v.state.ContentWidth(), v.state.ContentHeight()
	if !v.ready {
		v.vp = viewport.New(w, h)
		v.ready = true
	} else {
		v.vp.Width, v.vp.Height = w, h
	}
	v.vp.SetContent(formatter.FormatPlanPreview(v.preview))
}

func (v *planReviewView) View() string {
	if !v.ready {
		v.resize()
	}
	if v.working {
		return formatter.Dim("Creating interventions…")
	}
	return v.vp.View()
}
