package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/spf13/cobra"
)

func newLotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lot",
		Aliases: []string{"lots"},
		Short:   "Manage the work packages (lots) of a project",
	}
	cmd.AddCommand(
		newLotAddCmd(app),
		newLotListCmd(app),
		newLotMoveCmd(app),
		newLotStatusCmd(app),
		newLotAssignCmd(app),
		newLotRemoveCmd(app),
	)
	return cmd
}

func parseLotStatus(s string) (domain.WorkPackageStatus, error) {
	st := domain.WorkPackageStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !st.Valid() {
		names := make([]string, len(domain.LotStatuses))
		for i, v := range domain.LotStatuses {
			names[i] = string(v)
		}
		return "", fmt.Errorf("unknown status %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return st, nil
}

func newLotAddCmd(app *App) *cobra.Command {
	var project, name, start, end, color, status, company string
	var sortOrder int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lot to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			w := &domain.WorkPackage{
				ProjectID: p.ID,
				Name:      strings.TrimSpace(name),
				Color:     color,
				SortOrder: sortOrder,
			}
			if w.StartDate, err = parseOptionalDate(start); err != nil {
				return err
			}
			if w.EndDate, err = parseOptionalDate(end); err != nil {
				return err
			}
			if (w.StartDate == nil) != (w.EndDate == nil) {
				return fmt.Errorf("give both --start and --end, or neither: %w", domain.ErrMissingDates)
			}
			if status != "" {
				if w.Status, err = parseLotStatus(status); err != nil {
					return err
				}
			}
			if company != "" {
				c, err := app.Companies.GetByName(ctx, company)
				if err != nil {
					return err
				}
				w.CompanyID = &c.ID
			}
			if err := app.Lots.Create(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added lot %s to %s\n", w.Name, p.DisplayID())
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&name, "name", "", "Lot name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "Bar color (#rrggbb)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default pending)")
	cmd.Flags().StringVar(&company, "company", "", "Responsible company name")
	cmd.Flags().IntVar(&sortOrder, "order", 0, "Sort order among lots starting the same day")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLotListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the lots of a project in timeline order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			data, err := app.Timeline.LoadTimeline(ctx, p.ID)
			if err != nil {
				return err
			}
			children := map[string]int{}
			for _, s := range data.Interventions {
				children[s.WorkPackageID]++
			}
			out := cmd.OutOrStdout()
			if len(data.Lots) == 0 {
				fmt.Fprintln(out, formatter.Dim("No lots yet."))
				return nil
			}
			fmt.Fprint(out, formatter.FormatLotList(timeline.SortWorkPackages(data.Lots), data.CompanyName, children))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newLotMoveCmd(app *App) *cobra.Command {
	var project, dates string

	cmd := &cobra.Command{
		Use:   "move LOT",
		Short: "Reschedule a lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			lot, err := resolveLot(ctx, app, p.ID, args[0])
			if err != nil {
				return err
			}
			r, err := parseRange(dates)
			if err != nil {
				return err
			}
			patch := domain.WorkPackagePatch{StartDate: &r.Start, EndDate: &r.End}
			if err := app.Schedule.UpdateWorkPackage(ctx, lot.ID, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", lot.Name, formatter.FormatRange(r))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&dates, "range", "", "New dates (2024-03-04..2024-03-08)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("range")
	return cmd
}

func newLotStatusCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "status LOT STATUS",
		Short: "Set the status of a lot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			lot, err := resolveLot(ctx, app, p.ID, args[0])
			if err != nil {
				return err
			}
			st, err := parseLotStatus(args[1])
			if err != nil {
				return err
			}
			if err := app.Schedule.UpdateWorkPackage(ctx, lot.ID, domain.WorkPackagePatch{Status: &st}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", lot.Name, formatter.StatusPill(string(st)))
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newLotAssignCmd(app *App) *cobra.Command {
	var project, company string

	cmd := &cobra.Command{
		Use:   "assign LOT",
		Short: "Set or clear the company responsible for a lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			lot, err := resolveLot(ctx, app, p.ID, args[0])
			if err != nil {
				return err
			}
			var companyID string
			if company != "" {
				c, err := app.Companies.GetByName(ctx, company)
				if err != nil {
					return err
				}
				companyID = c.ID
			}
			if err := app.Lots.AssignCompany(ctx, lot.ID, companyID); err != nil {
				return err
			}
			if companyID == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no company\n", lot.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s assigned to %s\n", lot.Name, company)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	cmd.Flags().StringVar(&company, "company", "", "Company name (empty clears)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newLotRemoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "remove LOT",
		Short: "Delete a lot and its interventions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			lot, err := resolveLot(ctx, app, p.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.Lots.Delete(ctx, lot.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed lot %s\n", lot.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project short ID or ID")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
