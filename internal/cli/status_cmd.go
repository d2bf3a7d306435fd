package cli

import (
	"fmt"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "status PROJECT",
		Short: "Show progress and delays of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			req := app.StatusRequest{ProjectID: p.ID}
			if at != "" {
				d, err := domain.ParseDate(at)
				if err != nil {
					return fmt.Errorf("invalid --at date %q: %w", at, err)
				}
				req.Now = &d
			} else if a.Now != nil {
				now := a.Now()
				req.Now = &now
			}
			resp, err := a.Status.GetStatus(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Evaluate delays as of this date (YYYY-MM-DD)")
	return cmd
}
