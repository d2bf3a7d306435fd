package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
)

// SQLiteSubInterventionRepo implements SubInterventionRepo using a SQLite database.
type SQLiteSubInterventionRepo struct {
	db db.DBTX
}

func NewSQLiteSubInterventionRepo(conn db.DBTX) *SQLiteSubInterventionRepo {
	return &SQLiteSubInterventionRepo{db: conn}
}

const subInterventionColumns = `s.id, s.work_package_id, s.title, s.start_date, s.end_date, s.color, s.team_size,
	s.status, s.description, s.notes, s.created_at, s.updated_at`

func (r *SQLiteSubInterventionRepo) Create(ctx context.Context, s *domain.SubIntervention) error {
	query := `INSERT INTO sub_interventions (id, work_package_id, title, start_date, end_date, color, team_size,
		status, description, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.WorkPackageID,
		s.Title,
		domain.FormatDate(s.StartDate),
		domain.FormatDate(s.EndDate),
		s.Color,
		s.TeamSize,
		string(s.Status),
		s.Description,
		s.Notes,
		s.CreatedAt.Format(timestampLayout),
		s.UpdatedAt.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting sub-intervention: %w", err)
	}
	return nil
}

func (r *SQLiteSubInterventionRepo) GetByID(ctx context.Context, id string) (*domain.SubIntervention, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subInterventionColumns+` FROM sub_interventions s WHERE s.id = ?`, id)
	return scanSubIntervention(row)
}

// ListByWorkPackage returns a lot's interventions in creation order.
func (r *SQLiteSubInterventionRepo) ListByWorkPackage(ctx context.Context, workPackageID string) ([]*domain.SubIntervention, error) {
	return r.list(ctx, `SELECT `+subInterventionColumns+` FROM sub_interventions s
		WHERE s.work_package_id = ? ORDER BY s.created_at, s.id`, workPackageID)
}

// ListByProject returns every intervention of the project's lots.
func (r *SQLiteSubInterventionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.SubIntervention, error) {
	return r.list(ctx, `SELECT `+subInterventionColumns+` FROM sub_interventions s
		JOIN work_packages w ON w.id = s.work_package_id
		WHERE w.project_id = ? ORDER BY s.work_package_id, s.created_at, s.id`, projectID)
}

func (r *SQLiteSubInterventionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.SubIntervention, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sub-interventions: %w", err)
	}
	defer rows.Close()

	var out []*domain.SubIntervention
	for rows.Next() {
		s, err := scanSubIntervention(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-interventions: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubInterventionRepo) Update(ctx context.Context, s *domain.SubIntervention) error {
	query := `UPDATE sub_interventions SET title = ?, start_date = ?, end_date = ?, color = ?, team_size = ?,
		status = ?, description = ?, notes = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title,
		domain.FormatDate(s.StartDate),
		domain.FormatDate(s.EndDate),
		s.Color,
		s.TeamSize,
		string(s.Status),
		s.Description,
		s.Notes,
		s.UpdatedAt.Format(timestampLayout),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sub-intervention: %w", err)
	}
	return checkAffected(res, "sub-intervention", s.ID)
}

func (r *SQLiteSubInterventionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sub_interventions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sub-intervention: %w", err)
	}
	return checkAffected(res, "sub-intervention", id)
}

// DeleteMany removes every listed id and returns how many rows went away.
func (r *SQLiteSubInterventionRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM sub_interventions WHERE id IN (` + placeholders(len(ids)) + `)`
	res, err := r.db.ExecContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("deleting sub-interventions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func scanSubIntervention(sc rowScanner) (*domain.SubIntervention, error) {
	var s domain.SubIntervention
	var startStr, endStr, statusStr, createdAtStr, updatedAtStr string

	err := sc.Scan(
		&s.ID, &s.WorkPackageID, &s.Title, &startStr, &endStr, &s.Color, &s.TeamSize,
		&statusStr, &s.Description, &s.Notes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sub-intervention: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning sub-intervention: %w", err)
	}

	s.Status = domain.InterventionStatus(statusStr)
	if s.StartDate, err = domain.ParseDate(startStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if s.EndDate, err = domain.ParseDate(endStr); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &s, nil
}
