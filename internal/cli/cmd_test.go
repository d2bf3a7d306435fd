package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/planfile"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/alexanderramin/chantier/internal/service"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = domain.NewDate(2024, 1, 15)

// testApp wires a full App over an in-memory database with the clock fixed
// at testToday. The planning assistant is off.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projects := repository.NewSQLiteProjectRepo(database)
	companies := repository.NewSQLiteCompanyRepo(database)
	lots := repository.NewSQLiteWorkPackageRepo(database)
	interventions := repository.NewSQLiteSubInterventionRepo(database)

	schedule := service.NewScheduleService(uow, interventions)
	timelines := service.NewTimelineService(projects, lots, interventions, companies)
	return &App{
		Projects:  service.NewProjectService(projects),
		Companies: service.NewCompanyService(companies),
		Lots:      service.NewWorkPackageService(uow, lots),
		Schedule:  schedule,
		Timeline:  timelines,
		Plans:     service.NewPlanService(lots, schedule),
		Status:    service.NewStatusService(timelines),
		Now:       func() time.Time { return testToday },
	}
}

// seedSite creates VIL01 with "Gros oeuvre" over January 2024 and
// "Electricite" over February 2024.
func seedSite(t *testing.T, a *App) (*domain.Project, *domain.WorkPackage, *domain.WorkPackage) {
	t.Helper()
	ctx := context.Background()

	proj := testutil.NewTestProject("Villa Mer", testutil.WithShortID("VIL01"))
	require.NoError(t, a.Projects.Create(ctx, proj))

	gros := testutil.NewTestWorkPackage(proj.ID, "Gros oeuvre",
		testutil.WithDates(domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 31)),
		testutil.WithSortOrder(1), testutil.WithLotColor("#d65d0e"))
	elec := testutil.NewTestWorkPackage(proj.ID, "Electricite",
		testutil.WithDates(domain.NewDate(2024, 2, 1), domain.NewDate(2024, 2, 29)),
		testutil.WithSortOrder(2), testutil.WithLotColor("#458588"))
	require.NoError(t, a.Lots.Create(ctx, gros))
	require.NoError(t, a.Lots.Create(ctx, elec))
	return proj, gros, elec
}

func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(s string) string { return ansiPattern.ReplaceAllString(s, "") }

// ── project / company ────────────────────────────────────────────────────────

func TestProjectAddAndList(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "project", "add", "--id", "ecole24", "--name", "Ecole", "--start", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Ecole [ECOLE24]")

	out, err = executeCmd(t, a, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ECOLE24")
	assert.Contains(t, out, "2024-03-01")
}

func TestProjectAdd_RejectsBadShortID(t *testing.T) {
	a := testApp(t)
	_, err := executeCmd(t, a, "project", "add", "--id", "X1", "--name", "Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase letters")
}

func TestCompanyAddAndList(t *testing.T) {
	a := testApp(t)

	_, err := executeCmd(t, a, "company", "add", "--name", "Acme BTP", "--trade", "masonry")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "company", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme BTP")
	assert.Contains(t, out, "masonry")
}

// ── lots ─────────────────────────────────────────────────────────────────────

func TestLotAdd_WithCompanyShowsInList(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)
	_, err := executeCmd(t, a, "company", "add", "--name", "Sparky")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "lot", "add", "--project", "vil01", "--name", "Plomberie",
		"--start", "2024-03-01", "--end", "2024-03-15", "--company", "Sparky")
	require.NoError(t, err)
	assert.Contains(t, out, "Added lot Plomberie to VIL01")

	out, err = executeCmd(t, a, "lot", "list", "--project", "VIL01")
	require.NoError(t, err)
	assert.Contains(t, out, "Plomberie")
	assert.Contains(t, out, "Sparky")
	assert.Regexp(t, `(?s)Gros oeuvre.*Electricite.*Plomberie`, out, "timeline order")
}

func TestLotAdd_HalfScheduledIsRejected(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "lot", "add", "--project", "VIL01", "--name", "Toiture", "--start", "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrMissingDates)
}

func TestLotAdd_UnscheduledIsListed(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "lot", "add", "--project", "VIL01", "--name", "Toiture")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "lot", "list", "--project", "VIL01")
	require.NoError(t, err)
	assert.Contains(t, out, "unscheduled")
}

func TestLotMove_ByFoldedName(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)

	out, err := executeCmd(t, a, "lot", "move", "--project", "VIL01", "gros  OEUVRE", "--range", "2024-01-08..2024-02-07")
	require.NoError(t, err)
	assert.Contains(t, out, "Gros oeuvre")

	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, 1, 8), *got.StartDate)
	assert.Equal(t, domain.NewDate(2024, 2, 7), *got.EndDate)
}

func TestLotMove_InvertedRange(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "lot", "move", "--project", "VIL01", "Gros oeuvre", "--range", "2024-02-07..2024-01-08")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestLotStatus(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)

	_, err := executeCmd(t, a, "lot", "status", "--project", "VIL01", "Gros oeuvre", "in-progress")
	require.NoError(t, err)
	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LotInProgress, got.Status)

	_, err = executeCmd(t, a, "lot", "status", "--project", "VIL01", "Gros oeuvre", "finished")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestLotUnknown(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "lot", "status", "--project", "VIL01", "Charpente", "completed")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLotAssignAndClear(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	_, err := executeCmd(t, a, "company", "add", "--name", "Acme BTP")
	require.NoError(t, err)

	_, err = executeCmd(t, a, "lot", "assign", "--project", "VIL01", "Gros oeuvre", "--company", "Acme BTP")
	require.NoError(t, err)
	got, err := a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompanyID)

	out, err := executeCmd(t, a, "lot", "assign", "--project", "VIL01", "Gros oeuvre")
	require.NoError(t, err)
	assert.Contains(t, out, "has no company")
	got, err = a.Lots.GetByID(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompanyID)
}

// ── interventions ────────────────────────────────────────────────────────────

func TestInterventionAdd_OneTitleManyRanges(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)

	out, err := executeCmd(t, a, "intervention", "add", "--project", "VIL01", "--lot", "Gros oeuvre",
		"--title", "Coulage", "--range", "2024-01-04..2024-01-06", "--range", "2024-01-11:2024-01-13", "--team", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 2 interventions under Gros oeuvre")

	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, s := range items {
		assert.Equal(t, "Coulage", s.Title)
		assert.Equal(t, 3, s.TeamSize)
		assert.Equal(t, "#d65d0e", s.Color, "inherits the lot color")
	}

	out, err = executeCmd(t, a, "intervention", "list", "--project", "VIL01", "--lot", "Gros oeuvre")
	require.NoError(t, err)
	assert.Contains(t, out, "Coulage")
}

func TestInterventionAdd_SingleRange(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	out, err := executeCmd(t, a, "iv", "add", "--project", "VIL01", "--lot", "Electricite",
		"--title", "Gaines", "--range", "2024-02-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Gaines under Electricite")
}

func TestInterventionMoveAndDelete(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	ctx := context.Background()

	created, err := a.Schedule.BulkCreateSubInterventions(ctx, rangePayloads(gros.ID, "Coffrage", "",
		[]domain.DateRange{
			{Start: domain.NewDate(2024, 1, 2), End: domain.NewDate(2024, 1, 3)},
			{Start: domain.NewDate(2024, 1, 9), End: domain.NewDate(2024, 1, 10)},
			{Start: domain.NewDate(2024, 1, 16), End: domain.NewDate(2024, 1, 17)},
		}))
	require.NoError(t, err)
	require.Len(t, created, 3)

	_, err = executeCmd(t, a, "intervention", "move", created[0].ID, "--range", "2024-01-04..2024-01-05")
	require.NoError(t, err)

	out, err := executeCmd(t, a, "intervention", "delete", created[1].ID, created[2].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 intervention(s)")

	items, err := a.Schedule.ListInterventions(ctx, gros.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NewDate(2024, 1, 4), items[0].StartDate)
}

func TestInterventionDelete_UnknownID(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	ctx := context.Background()

	s, err := a.Schedule.CreateSubIntervention(ctx, domain.NewSubIntervention{
		ParentID: gros.ID, Title: "Fondations",
		StartDate: domain.NewDate(2024, 1, 2), EndDate: domain.NewDate(2024, 1, 5),
	})
	require.NoError(t, err)

	_, err = executeCmd(t, a, "intervention", "delete", "missing-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A bulk delete skips ids that are already gone.
	_, err = executeCmd(t, a, "intervention", "delete", s.ID, "missing-id")
	require.NoError(t, err)
	items, err := a.Schedule.ListInterventions(ctx, gros.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ── plans ────────────────────────────────────────────────────────────────────

func writeTestPlan(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const testPlanJSON = `{
  "project": "VIL01",
  "interventions": [
    {"lot": "gros oeuvre", "title": "Ferraillage", "start": "2024-01-08", "end": "2024-01-12"},
    {"lot": "Charpente", "title": "Levage", "start": "2024-02-01", "end": "2024-02-02"}
  ]
}`

func TestPlanImport_PreviewWithoutYes(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	path := writeTestPlan(t, "plan.json", testPlanJSON)

	out, err := executeCmd(t, a, "plan", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PROPOSED INTERVENTIONS (1)")
	assert.Contains(t, out, "EXCLUDED (1)")
	assert.Contains(t, out, "unknown lot")
	assert.Contains(t, out, "Re-run with --yes")

	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "a preview writes nothing")
}

func TestPlanImport_Yes(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	path := writeTestPlan(t, "plan.json", testPlanJSON)

	out, err := executeCmd(t, a, "plan", "import", path, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 interventions")
	assert.Contains(t, out, "1 excluded")

	items, err := a.Schedule.ListInterventions(context.Background(), gros.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ferraillage", items[0].Title)
}

func TestPlanImport_YAMLWithProjectFlag(t *testing.T) {
	a := testApp(t)
	_, _, elec := seedSite(t, a)
	path := writeTestPlan(t, "plan.yaml", `interventions:
  - lot: Electricite
    title: Tirage
    start: "2024-02-12"
    end: "2024-02-14"
`)

	_, err := executeCmd(t, a, "plan", "import", path, "--project", "VIL01", "-y")
	require.NoError(t, err)

	items, err := a.Schedule.ListInterventions(context.Background(), elec.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPlanSuggest_Disabled(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "plan", "suggest", "--project", "VIL01")
	assert.ErrorIs(t, err, errAssistantDisabled)
}

type fakeSuggester struct {
	req       app.PlanSuggestRequest
	proposals []domain.ProposedIntervention
}

func (f *fakeSuggester) Suggest(_ context.Context, req app.PlanSuggestRequest) ([]domain.ProposedIntervention, error) {
	f.req = req
	return f.proposals, nil
}

func TestPlanSuggest_WritesPlanFile(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)
	fake := &fakeSuggester{proposals: []domain.ProposedIntervention{
		{WorkPackageName: "Electricite", Title: "Tableau", StartDate: domain.NewDate(2024, 2, 20), EndDate: domain.NewDate(2024, 2, 21)},
	}}
	a.Suggest = fake
	out := filepath.Join(t.TempDir(), "proposal.yaml")

	stdout, err := executeCmd(t, a, "plan", "suggest", "--project", "VIL01", "--brief", "two crews", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 1 proposals")

	assert.Equal(t, "two crews", fake.req.Brief)
	assert.Len(t, fake.req.Lots, 2)
	assert.Equal(t, testToday, fake.req.Today)

	f, err := planfile.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "VIL01", f.Project)
	require.Len(t, f.Interventions, 1)
	assert.Equal(t, "2024-02-20", f.Interventions[0].Start)
}

func TestPlanSuggest_Accept(t *testing.T) {
	a := testApp(t)
	_, _, elec := seedSite(t, a)
	a.Suggest = &fakeSuggester{proposals: []domain.ProposedIntervention{
		{WorkPackageName: "Electricite", Title: "Tableau", StartDate: domain.NewDate(2024, 2, 20), EndDate: domain.NewDate(2024, 2, 21)},
		{WorkPackageName: "Electricite", Title: "", StartDate: domain.NewDate(2024, 2, 22), EndDate: domain.NewDate(2024, 2, 23)},
	}}

	out, err := executeCmd(t, a, "plan", "suggest", "--project", "VIL01", "--accept")
	require.NoError(t, err)
	assert.Contains(t, out, "missing title")

	items, err := a.Schedule.ListInterventions(context.Background(), elec.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// ── timeline / status ────────────────────────────────────────────────────────

func TestTimeline_PrintsTextWithoutTerminal(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	out, err := executeCmd(t, a, "timeline", "VIL01")
	require.NoError(t, err)
	assert.Contains(t, out, "Villa Mer")
	assert.Contains(t, out, "Gros oeuvre")
	assert.Contains(t, out, "Electricite")
	assert.Contains(t, out, "Jan 2024")
}

func TestTimeline_LotsOnlyHidesInterventions(t *testing.T) {
	a := testApp(t)
	_, gros, _ := seedSite(t, a)
	_, err := a.Schedule.CreateSubIntervention(context.Background(), domain.NewSubIntervention{
		ParentID: gros.ID, Title: "Terrassement",
		StartDate: domain.NewDate(2024, 1, 2), EndDate: domain.NewDate(2024, 1, 5),
	})
	require.NoError(t, err)

	out, err := executeCmd(t, a, "timeline", "VIL01")
	require.NoError(t, err)
	assert.Contains(t, out, "Terrassement")

	out, err = executeCmd(t, a, "timeline", "VIL01", "--lots-only")
	require.NoError(t, err)
	assert.NotContains(t, out, "Terrassement")
}

func TestTimeline_BadZoom(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	_, err := executeCmd(t, a, "timeline", "VIL01", "--zoom", "huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zoom level")
}

func TestTimelineExport_SVG(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	out, err := executeCmd(t, a, "timeline", "export", "VIL01")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Villa Mer")
	assert.Contains(t, out, "Gros oeuvre")

	path := filepath.Join(t.TempDir(), "villa.svg")
	_, err = executeCmd(t, a, "timeline", "export", "VIL01", "--zoom", "coarse", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</svg>")
}

func TestStatus(t *testing.T) {
	a := testApp(t)
	seedSite(t, a)

	out, err := executeCmd(t, a, "status", "VIL01", "--at", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Villa Mer")
	assert.Contains(t, out, "Gros oeuvre")
	assert.Contains(t, out, "2 delayed", "both lots ended before March and are not completed")
}

func TestStatus_UnknownProject(t *testing.T) {
	a := testApp(t)
	_, err := executeCmd(t, a, "status", "NOPE01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseGlobalFlags(t *testing.T) {
	g := ParseGlobalFlags([]string{"timeline", "VIL01", "--zoom", "fine", "--db", "/tmp/site.db", "--config=/etc/chantier.toml"})
	assert.Equal(t, "/tmp/site.db", g.DB)
	assert.Equal(t, "/etc/chantier.toml", g.Config)

	assert.Equal(t, GlobalFlags{}, ParseGlobalFlags([]string{"status", "VIL01"}))
}
