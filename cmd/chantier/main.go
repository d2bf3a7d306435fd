package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/chantier/internal/cli"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/config"
	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/intelligence"
	"github.com/alexanderramin/chantier/internal/llm"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/alexanderramin/chantier/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --db and --config decide what gets opened, so they are read before
	// cobra parses the full command line.
	flags := cli.ParseGlobalFlags(os.Args[1:])

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	if flags.DB != "" {
		cfg.DBPath = flags.DB
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// The TUI owns the terminal, so diagnostics go to the log file.
	var logOut io.Writer
	if cfg.Log {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	observer := service.NewLogUseCaseObserver(logOut)

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	companyRepo := repository.NewSQLiteCompanyRepo(database)
	lotRepo := repository.NewSQLiteWorkPackageRepo(database)
	interventionRepo := repository.NewSQLiteSubInterventionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	schedule := service.NewScheduleService(uow, interventionRepo, observer)
	timelines := service.NewTimelineService(projectRepo, lotRepo, interventionRepo, companyRepo, observer)

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo),
		Companies: service.NewCompanyService(companyRepo),
		Lots:      service.NewWorkPackageService(uow, lotRepo, observer),
		Schedule:  schedule,
		Timeline:  timelines,
		Plans:     service.NewPlanService(lotRepo, schedule, observer),
		Status:    service.NewStatusService(timelines),
		Config:    cfg,
		LogOutput: logOut,
	}

	// Timeline and plan review open full-screen only on a terminal.
	app.IsInteractive = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	formatter.SetStatusColors(cfg.StatusColors)

	// The planning assistant is wired only when enabled.
	llmCfg := cfg.LLMSettings()
	if llmCfg.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls && logOut != nil {
			llmObserver = llm.NewLogObserver(logOut)
		}
		app.Suggest = intelligence.NewPlanSuggestionService(llm.NewOllamaClient(llmCfg, llmObserver))
	}

	return cli.NewRootCmd(app).Execute()
}
