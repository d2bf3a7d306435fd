package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/render"
	"github.com/alexanderramin/chantier/internal/timeline"
	"github.com/alexanderramin/chantier/internal/watch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// boardFlags are the view options shared by the timeline commands.
type boardFlags struct {
	zoom     string
	mode     string
	month    string
	lotsOnly bool
}

func (f *boardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.zoom, "zoom", "", "Zoom level: coarse, medium or fine (default from config)")
	cmd.Flags().StringVar(&f.mode, "view", "", "Row mode: all or lots (default from config)")
	cmd.Flags().StringVar(&f.month, "month", "", "Focus month YYYY-MM (default: the current month)")
	cmd.Flags().BoolVar(&f.lotsOnly, "lots-only", false, "Hide interventions (same as --view lots)")
}

func (f *boardFlags) viewState(a *App) (timeline.ViewState, error) {
	cfg := a.config()
	zoom, mode := cfg.Zoom(), cfg.ViewMode()
	var err error
	if f.zoom != "" {
		if zoom, err = timeline.ParseZoom(f.zoom); err != nil {
			return timeline.ViewState{}, err
		}
	}
	if f.mode != "" {
		if mode, err = timeline.ParseViewMode(f.mode); err != nil {
			return timeline.ViewState{}, err
		}
	}
	if f.lotsOnly {
		mode = timeline.ViewLotsOnly
	}
	view := timeline.NewViewState(a.today(), zoom, mode)
	if f.month != "" {
		m, err := time.Parse("2006-01", f.month)
		if err != nil {
			return timeline.ViewState{}, fmt.Errorf("invalid month %q (want YYYY-MM)", f.month)
		}
		view.FocusOn(m)
	}
	return view, nil
}

func (f *boardFlags) board(a *App, g timeline.Geometry) (*timeline.Board, error) {
	view, err := f.viewState(a)
	if err != nil {
		return nil, err
	}
	b := timeline.NewBoard(g, view, a.today())
	if n := a.config().Timeline.InlineSpanDays; n > 0 {
		b.SpanDays = n
	}
	return b, nil
}

func newTimelineCmd(app *App) *cobra.Command {
	var flags boardFlags

	cmd := &cobra.Command{
		Use:   "timeline PROJECT",
		Short: "Open the interactive timeline of a project",
		Long: `Open the interactive timeline of a project.

Drag a bar to move it, drag its edges to resize it, and click an empty
part of a lot row to add an intervention there. Without a terminal the
timeline is printed as text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			board, err := flags.board(app, app.config().TerminalGeometry())
			if err != nil {
				return err
			}
			if !app.interactive() {
				return printTimeline(cmd, app, p, board)
			}

			var changes <-chan struct{}
			if app.config().Watch {
				var opts []watch.Option
				if app.LogOutput != nil {
					opts = append(opts, watch.WithLogger(slog.New(slog.NewTextHandler(app.LogOutput, nil))))
				}
				w, err := watch.New(app.config().DBPath, opts...)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("Live refresh off: "+err.Error()))
				} else {
					defer w.Close()
					changes = w.Changed()
				}
			}

			state := &SharedState{App: app, Project: p, Today: domain.Day(app.today())}
			view := newTimelineView(state, p.ID, board, app.config().Timeline.LabelWidth, changes)
			return runTUI(cmd, newAppModel(state, view))
		},
	}
	flags.bind(cmd)
	cmd.AddCommand(newTimelineExportCmd(app))
	return cmd
}

// printTimeline writes the text snapshot used when stdout is not a terminal.
func printTimeline(cmd *cobra.Command, a *App, p *domain.Project, board *timeline.Board) error {
	data, err := a.Timeline.LoadTimeline(cmd.Context(), p.ID)
	if err != nil {
		return err
	}
	board.SetData(data.Lots, data.Interventions)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", formatter.Bold(p.Name), formatter.FormatStats(board.Stats()))
	return render.Text(out, board.Scene(), render.TextOptions{
		LabelWidth: a.config().Timeline.LabelWidth,
		Today:      board.Today,
	})
}

func newTimelineExportCmd(app *App) *cobra.Command {
	var flags boardFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export the timeline as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			board, err := flags.board(app, app.config().SVGGeometry())
			if err != nil {
				return err
			}
			data, err := app.Timeline.LoadTimeline(ctx, p.ID)
			if err != nil {
				return err
			}
			board.SetData(data.Lots, data.Interventions)

			opts := render.SVGOptions{
				Title:   p.Name,
				Today:   board.Today,
				Palette: formatter.Palette,
			}
			if outPath == "" || outPath == "-" {
				return render.SVG(cmd.OutOrStdout(), board.Scene(), opts)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			if err := render.SVG(f, board.Scene(), opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// runTUI runs model full-screen with mouse tracking until it quits.
func runTUI(cmd *cobra.Command, model tea.Model) error {
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	_, err := p.Run()
	return err
}
