package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/spf13/cobra"
)

func newInterventionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "intervention",
		Aliases: []string{"iv"},
		Short:   "Manage the interventions nested under lots",
	}
	cmd.AddCommand(
		newInterventionAddCmd(app),
		newInterventionListCmd(app),
		newInterventionMoveCmd(app),
		newInterventionDeleteCmd(app),
	)
	return cmd
}

func newInterventionAddCmd(app *App) *cobra.Command {
	var project, lotRef, title, color, notes, description string
	var ranges []string
	var team int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one intervention per --range, all with the same title",
		Example: `  chantier intervention add --project VIL01 --lot "Gros oeuvre" --title Coulage \
    --range 2024-03-04..2024-03-06 --range 2024-03-11..2024-03-13`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			lot, err := resolveLot(ctx, app, p.ID, lotRef)
			if err != nil {
				return err
			}
			rs, err := parseRanges(strings.Join(ranges, "\n"))
			if err != nil {
				return err
			}
			payloads := rangePayloads(lot.ID, strings.TrimSpace(title), color, rs)
			for i := range payloads {
				if cmd.Flags().Changed("team") {
					payloads[i].TeamSize = &team
				}
				if notes != "" {
					payloads[i].Notes = &notes
				}
				if description != "" {
					payloads[i].Description = &description
				}
			}

			out := cmd.OutOrStdout()
			if len(payloads) == 1 {
				s, err := app.Schedule.CreateSubIntervention(ctx, payloads[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created %s under %s (%s)\n", s.Title, lot.Name, formatter.FormatRange(s.Range()))
				return nil
			}
			created, err := app.Schedule.BulkCreateSubInterventions(ctx, payloads)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %d interventions under %s\n", len(created), lot.Name)
			for _, s := range created {
				fmt.Fprintf(out, "  %s %s\n", formatter.Dim(formatter.TruncID(s.ID)), formatter.FormatRange(s.Range()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&lotRef, "lot", "", "Parent lot name or ID")
	cmd.Flags().StringVar(&title, "title", "", "Intervention title")
	cmd.Flags().StringArrayVar(&ranges, "range", nil, "Date range START..END (repeatable)")
	cmd.Flags().StringVar(&color, "color", "", "Bar color (default: the lot color)")
	cmd.Flags().IntVar(&team, "team", domain.DefaultTeamSize, "Team size")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	for _, f := range []string{"project", "lot", "title", "range"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newInterventionListCmd(app *App) *cobra.Command {
	var project, lotRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interventions, grouped by lot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			var lots []*domain.WorkPackage
			if lotRef != "" {
				lot, err := resolveLot(ctx, app, p.ID, lotRef)
				if err != nil {
					return err
				}
				lots = []*domain.WorkPackage{lot}
			} else if lots, err = app.Lots.ListByProject(ctx, p.ID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, lot := range lots {
				items, err := app.Schedule.ListInterventions(ctx, lot.ID)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, formatter.Header(lot.Name))
				fmt.Fprint(out, formatter.FormatInterventionList(items))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&lotRef, "lot", "", "Only this lot")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newInterventionMoveCmd(app *App) *cobra.Command {
	var dates string

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Reschedule an intervention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRange(dates)
			if err != nil {
				return err
			}
			patch := domain.SubInterventionPatch{StartDate: &r.Start, EndDate: &r.End}
			if err := app.Schedule.UpdateSubIntervention(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", formatter.TruncID(args[0]), formatter.FormatRange(r))
			return nil
		},
	}
	cmd.Flags().StringVar(&dates, "range", "", "New dates (2024-03-04..2024-03-08)")
	_ = cmd.MarkFlagRequired("range")
	return cmd
}

func newInterventionDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID...",
		Aliases: []string{"rm"},
		Short:   "Delete interventions; several IDs are removed in one transaction",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			if len(args) == 1 {
				err = app.Schedule.DeleteSubIntervention(ctx, args[0])
			} else {
				err = app.Schedule.BulkDeleteSubInterventions(ctx, args)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d intervention(s)\n", len(args))
			return nil
		},
	}
}
