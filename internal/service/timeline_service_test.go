package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineService_LoadTimeline(t *testing.T) {
	r := setupRepos(t)
	proj, gros, elec := seedSite(t, r)
	ctx := context.Background()

	acme := testutil.NewTestCompany("Acme BTP")
	require.NoError(t, r.companies.Create(ctx, acme))
	require.NoError(t, r.interventions.Create(ctx,
		testutil.NewTestSubIntervention(gros.ID, "Fondations", domain.NewDate(2024, 1, 2), domain.NewDate(2024, 1, 8))))
	require.NoError(t, r.interventions.Create(ctx,
		testutil.NewTestSubIntervention(elec.ID, "Gaines", domain.NewDate(2024, 2, 2), domain.NewDate(2024, 2, 8))))

	other := testutil.NewTestProject("Ecole")
	require.NoError(t, r.projects.Create(ctx, other))
	require.NoError(t, r.lots.Create(ctx, testutil.NewTestWorkPackage(other.ID, "Toiture")))

	svc := NewTimelineService(r.projects, r.lots, r.interventions, r.companies)
	data, err := svc.LoadTimeline(ctx, proj.ID)
	require.NoError(t, err)

	assert.Equal(t, "VIL01", data.Project.ShortID)
	require.Len(t, data.Lots, 2, "other project's lots are not loaded")
	assert.Len(t, data.Interventions, 2)
	require.Len(t, data.Companies, 1)
	assert.Equal(t, "Acme BTP", data.CompanyName(acme.ID))
	assert.Equal(t, "", data.CompanyName("unknown"))
}

func TestTimelineService_LoadTimeline_UnknownProject(t *testing.T) {
	r := setupRepos(t)
	svc := NewTimelineService(r.projects, r.lots, r.interventions, r.companies)

	_, err := svc.LoadTimeline(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
