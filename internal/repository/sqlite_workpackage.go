package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
)

// SQLiteWorkPackageRepo implements WorkPackageRepo using a SQLite database.
type SQLiteWorkPackageRepo struct {
	db db.DBTX
}

func NewSQLiteWorkPackageRepo(conn db.DBTX) *SQLiteWorkPackageRepo {
	return &SQLiteWorkPackageRepo{db: conn}
}

const workPackageColumns = `id, project_id, name, status, start_date, end_date, color, sort_order, company_id, created_at, updated_at`

func (r *SQLiteWorkPackageRepo) Create(ctx context.Context, w *domain.WorkPackage) error {
	query := `INSERT INTO work_packages (` + workPackageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.Name,
		string(w.Status),
		nullableTimeToString(w.StartDate, domain.DateLayout),
		nullableTimeToString(w.EndDate, domain.DateLayout),
		w.Color,
		w.SortOrder,
		nullableString(w.CompanyID),
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting work package: %w", err)
	}
	return nil
}

func (r *SQLiteWorkPackageRepo) GetByID(ctx context.Context, id string) (*domain.WorkPackage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workPackageColumns+` FROM work_packages WHERE id = ?`, id)
	return scanWorkPackage(row)
}

// ListByProject returns the project's lots in sort_order, then creation order.
func (r *SQLiteWorkPackageRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+workPackageColumns+` FROM work_packages
		WHERE project_id = ? ORDER BY sort_order, created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work packages: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkPackage
	for rows.Next() {
		w, err := scanWorkPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work packages: %w", err)
	}
	return out, nil
}

func (r *SQLiteWorkPackageRepo) NextSortOrder(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM work_packages WHERE project_id = ?`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reading next sort order: %w", err)
	}
	return n, nil
}

func (r *SQLiteWorkPackageRepo) Update(ctx context.Context, w *domain.WorkPackage) error {
	query := `UPDATE work_packages SET name = ?, status = ?, start_date = ?, end_date = ?, color = ?,
		sort_order = ?, company_id = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Name,
		string(w.Status),
		nullableTimeToString(w.StartDate, domain.DateLayout),
		nullableTimeToString(w.EndDate, domain.DateLayout),
		w.Color,
		w.SortOrder,
		nullableString(w.CompanyID),
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work package: %w", err)
	}
	return checkAffected(res, "work package", w.ID)
}

func (r *SQLiteWorkPackageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_packages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work package: %w", err)
	}
	return checkAffected(res, "work package", id)
}

func scanWorkPackage(s rowScanner) (*domain.WorkPackage, error) {
	var w domain.WorkPackage
	var statusStr, createdAtStr, updatedAtStr string
	var startStr, endStr, companyID sql.NullString

	err := s.Scan(
		&w.ID, &w.ProjectID, &w.Name, &statusStr,
		&startStr, &endStr,
		&w.Color, &w.SortOrder, &companyID,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work package: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work package: %w", err)
	}

	w.Status = domain.WorkPackageStatus(statusStr)
	w.StartDate = parseNullableTime(startStr, domain.DateLayout)
	w.EndDate = parseNullableTime(endStr, domain.DateLayout)
	if companyID.Valid {
		id := companyID.String
		w.CompanyID = &id
	}
	if w.CreatedAt, w.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &w, nil
}
