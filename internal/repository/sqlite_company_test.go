package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepo_CreateListAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCompanyRepo(db)
	ctx := context.Background()

	b := testutil.NewTestCompany("Bati Sud")
	a := testutil.NewTestCompany("atelier bois")
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, a))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "atelier bois", list[0].Name, "ordered by name, case-insensitive")

	byName, err := repo.GetByName(ctx, "BATI SUD")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byName.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dup := testutil.NewTestCompany("bati sud")
	assert.Error(t, repo.Create(ctx, dup), "names are unique regardless of case")
}
