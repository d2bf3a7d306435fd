package cli

import (
	"io"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/config"
	"github.com/alexanderramin/chantier/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Companies service.CompanyService
	Lots      service.WorkPackageService
	Schedule  service.ScheduleService
	Timeline  service.TimelineService
	Plans     service.PlanService
	Status    service.StatusService

	// Suggest is nil when the planning assistant is disabled.
	Suggest app.PlanSuggestUseCase

	Config *config.Config

	// IsInteractive reports whether stdout is a terminal. Nil means never.
	IsInteractive func() bool
	// Now is the clock; nil means time.Now.
	Now func() time.Time
	// LogOutput receives diagnostics while the TUI owns the terminal. Nil
	// discards them.
	LogOutput io.Writer
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) today() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// config falls back to the built-in defaults when no file was loaded.
func (a *App) config() *config.Config {
	if a.Config == nil {
		a.Config = config.Default("")
	}
	return a.Config
}

// GlobalFlags are the persistent flags main needs before the services exist.
type GlobalFlags struct {
	DB     string
	Config string
}

func bindGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.DB, "db", "", "SQLite database path (overrides config and CHANTIER_DB)")
	fs.StringVar(&g.Config, "config", "", "Config file (TOML or YAML)")
}

// ParseGlobalFlags extracts --db and --config from args, ignoring every
// other flag. Cobra parses the full command line again later.
func ParseGlobalFlags(args []string) GlobalFlags {
	var g GlobalFlags
	fs := pflag.NewFlagSet("chantier", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	bindGlobalFlags(fs, &g)
	_ = fs.Parse(args)
	return g
}

// NewRootCmd creates the top-level "chantier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "chantier",
		Short:         "Construction site planning on a timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var g GlobalFlags
	bindGlobalFlags(root.PersistentFlags(), &g)

	root.AddCommand(
		newProjectCmd(app),
		newCompanyCmd(app),
		newLotCmd(app),
		newInterventionCmd(app),
		newPlanCmd(app),
		newTimelineCmd(app),
		newStatusCmd(app),
	)
	return root
}
