package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/planfile"
	"github.com/spf13/cobra"
)

var errAssistantDisabled = errors.New("the planning assistant is disabled (set llm.enabled = true in the config)")

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Review and accept proposed schedules",
	}
	cmd.AddCommand(newPlanSuggestCmd(app), newPlanImportCmd(app))
	return cmd
}

func newPlanSuggestCmd(app *App) *cobra.Command {
	var project, brief, outPath string
	var accept bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the planning assistant for interventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Suggest == nil {
				return errAssistantDisabled
			}
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			data, err := app.Timeline.LoadTimeline(ctx, p.ID)
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Asking the planning assistant…")
			}
			proposals, err := app.Suggest.Suggest(ctx, suggestRequest(data, app.today(), brief))
			stop()
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writePlanFile(outPath, planfile.FromProposals(p.DisplayID(), proposals)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d proposals to %s\n", len(proposals), outPath)
				if !accept {
					return nil
				}
			}
			return reviewProposals(cmd, app, p, proposals, accept, "--accept")
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&brief, "brief", "", "Constraints for the assistant (\"start in March, two crews\")")
	cmd.Flags().StringVar(&outPath, "out", "", "Save the proposal to a JSON or YAML plan file")
	cmd.Flags().BoolVar(&accept, "accept", false, "Create the valid proposals without review")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	var project string
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Accept a plan file (JSON or YAML) into a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			ref := project
			if ref == "" {
				ref = f.Project
			}
			p, err := resolveProject(cmd.Context(), app, ref)
			if err != nil {
				return err
			}
			return reviewProposals(cmd, app, p, f.Proposals(), yes, "--yes")
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID (default: the file's project)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept without review")
	return cmd
}

func suggestRequest(data *app.TimelineData, today time.Time, brief string) app.PlanSuggestRequest {
	return app.PlanSuggestRequest{
		Project:       data.Project,
		Lots:          data.Lots,
		Interventions: data.Interventions,
		Today:         today,
		Brief:         brief,
	}
}

// reviewProposals accepts straight away, opens the review screen on a
// terminal, or prints the preview with a hint to re-run with acceptFlag.
func reviewProposals(cmd *cobra.Command, a *App, p *domain.Project, proposals []domain.ProposedIntervention, accept bool, acceptFlag string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if accept {
		summary, err := a.Plans.Accept(ctx, p.ID, proposals)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.FormatAcceptance(summary))
		return nil
	}

	preview, err := a.Plans.Preview(ctx, p.ID, proposals)
	if err != nil {
		return err
	}
	if !a.interactive() {
		fmt.Fprint(out, formatter.FormatPlanPreview(preview))
		if len(preview.Accepted) > 0 {
			fmt.Fprintln(out, formatter.Dim("Re-run with "+acceptFlag+" to create them."))
		}
		return nil
	}

	state := &SharedState{App: a, Project: p, Today: a.today()}
	review := newPlanReviewView(state, p.ID, proposals, preview, true)
	if err := runTUI(cmd, newAppModel(state, review)); err != nil {
		return err
	}
	switch {
	case review.Err != nil:
		return review.Err
	case review.Summary != nil:
		fmt.Fprintln(out, formatter.FormatAcceptance(review.Summary))
	case review.Declined:
		fmt.Fprintln(out, "Proposal discarded.")
	}
	return nil
}

func writePlanFile(path string, f *planfile.File) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plan file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return planfile.Write(file, f, planfile.FormatForPath(path))
}
