package cli

import (
	"fmt"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage construction projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var shortID, name, client, address, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				ShortID: shortID,
				Name:    name,
				Client:  client,
				Address: address,
			}
			if start != "" {
				d, err := domain.ParseDate(start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				p.StartDate = d
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. VIL01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&address, "address", "", "Site address")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage the contractor directory",
	}
	cmd.AddCommand(newCompanyAddCmd(app), newCompanyListCmd(app))
	return cmd
}

func newCompanyAddCmd(app *App) *cobra.Command {
	var name, trade, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Company{Name: name, Trade: trade, Color: color}
			if err := app.Companies.Create(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added company %s\n", c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&trade, "trade", "", "Trade (masonry, electricity, ...)")
	cmd.Flags().StringVar(&color, "color", "", "Display color (#rrggbb)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCompanyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := app.Companies.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompanyList(companies))
			return nil
		},
	}
}
