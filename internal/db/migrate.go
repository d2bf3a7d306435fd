package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSortOrder(db); err != nil {
		return fmt.Errorf("backfilling work package sort order: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		client      TEXT NOT NULL DEFAULT '',
		address     TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS companies (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE COLLATE NOCASE,
		trade      TEXT NOT NULL DEFAULT '',
		color      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_packages (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','completed','delayed','on_hold')),
		start_date  TEXT,
		end_date    TEXT,
		color       TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		company_id  TEXT REFERENCES companies(id) ON DELETE SET NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date IS NULL OR end_date IS NULL OR start_date <= end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_packages_project ON work_packages(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_packages_company ON work_packages(company_id)`,

	`CREATE TABLE IF NOT EXISTS sub_interventions (
		id              TEXT PRIMARY KEY,
		work_package_id TEXT NOT NULL REFERENCES work_packages(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
		color           TEXT NOT NULL DEFAULT '',
		team_size       INTEGER NOT NULL DEFAULT 1 CHECK(team_size >= 1),
		status          TEXT NOT NULL DEFAULT 'planned'
		                CHECK(status IN ('planned','in_progress','completed','delayed','cancelled')),
		description     TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sub_interventions_parent ON sub_interventions(work_package_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sub_interventions_dates ON sub_interventions(start_date, end_date)`,

	// Site notes on interventions
	`ALTER TABLE sub_interventions ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSortOrder numbers work packages whose sort_order was never
// set (all zero within a project), in creation order. Idempotent: projects
// with any non-zero sort_order are left alone.
func migrateBackfillSortOrder(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE work_packages
		SET sort_order = (
			SELECT COUNT(*) FROM work_packages w2
			WHERE w2.project_id = work_packages.project_id
			  AND (w2.created_at < work_packages.created_at
			       OR (w2.created_at = work_packages.created_at AND w2.id < work_packages.id))
		) + 1
		WHERE project_id IN (
			SELECT project_id FROM work_packages
			GROUP BY project_id
			HAVING MAX(sort_order) = 0
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("numbering work packages: %w", err)
	}
	return nil
}
