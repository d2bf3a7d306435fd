package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, repo *SQLiteProjectRepo) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Villa")
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestWorkPackageRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	companies := NewSQLiteCompanyRepo(db)
	repo := NewSQLiteWorkPackageRepo(db)

	co := testutil.NewTestCompany("Bati Sud")
	require.NoError(t, companies.Create(ctx, co))

	lot := testutil.NewTestWorkPackage(proj.ID, "Gros œuvre",
		testutil.WithDates(domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 10)),
		testutil.WithCompany(co.ID),
		testutil.WithLotColor("#fb4934"))
	require.NoError(t, repo.Create(ctx, lot))

	got, err := repo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gros œuvre", got.Name)
	assert.Equal(t, domain.LotPending, got.Status)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, domain.NewDate(2024, 1, 1), *got.StartDate)
	assert.Equal(t, domain.NewDate(2024, 1, 10), *got.EndDate)
	assert.Equal(t, co.ID, got.CompanyIDOrEmpty())
	assert.Equal(t, "#fb4934", got.Color)
}

func TestWorkPackageRepo_Unscheduled(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteWorkPackageRepo(db)

	lot := testutil.NewTestWorkPackage(proj.ID, "Finitions")
	require.NoError(t, repo.Create(ctx, lot))

	got, err := repo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Nil(t, got.CompanyID)
	assert.False(t, got.Scheduled())
}

func TestWorkPackageRepo_UpdateRejectsInvertedRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteWorkPackageRepo(db)

	lot := testutil.NewTestWorkPackage(proj.ID, "Charpente",
		testutil.WithDates(domain.NewDate(2024, 3, 1), domain.NewDate(2024, 3, 5)))
	require.NoError(t, repo.Create(ctx, lot))

	late := domain.NewDate(2024, 3, 9)
	lot.StartDate = &late
	assert.Error(t, repo.Update(ctx, lot))

	lot.Status = domain.LotInProgress
	start := domain.NewDate(2024, 3, 2)
	lot.StartDate = &start
	require.NoError(t, repo.Update(ctx, lot))
	got, err := repo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LotInProgress, got.Status)
	assert.Equal(t, start, *got.StartDate)
}

func TestWorkPackageRepo_ListAndSortOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteWorkPackageRepo(db)

	next, err := repo.NextSortOrder(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkPackage(proj.ID, "B", testutil.WithSortOrder(2))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkPackage(proj.ID, "A", testutil.WithSortOrder(1))))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)

	next, err = repo.NextSortOrder(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	require.NoError(t, repo.Delete(ctx, list[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, list[0].ID), domain.ErrNotFound)
}
