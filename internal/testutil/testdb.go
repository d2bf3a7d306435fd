package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory database for one test. It is pinned
// to a single connection, so transactions from a UnitOfWork and plain
// repository calls see the same data.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, db.Memory)
}

// NewFileTestDB opens a migrated database file under t.TempDir. Use it when
// several connections must share state, as two chantier processes would.
func NewFileTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chantier.db")
	return open(t, path), path
}

func open(t *testing.T, path string) *sql.DB {
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
