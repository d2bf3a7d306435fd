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

// SQLiteCompanyRepo implements CompanyRepo using a SQLite database.
type SQLiteCompanyRepo struct {
	db db.DBTX
}

func NewSQLiteCompanyRepo(conn db.DBTX) *SQLiteCompanyRepo {
	return &SQLiteCompanyRepo{db: conn}
}

const companyColumns = `id, name, trade, color, created_at`

func (r *SQLiteCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO companies (`+companyColumns+`) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Trade, c.Color, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting company: %w", err)
	}
	return nil
}

func (r *SQLiteCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
}

// GetByName matches case-insensitively.
func (r *SQLiteCompanyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = ? COLLATE NOCASE`, name))
}

func (r *SQLiteCompanyRepo) List(ctx context.Context) ([]*domain.Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var out []*domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return out, nil
}

func scanCompany(s rowScanner) (*domain.Company, error) {
	var c domain.Company
	var createdAtStr string
	if err := s.Scan(&c.ID, &c.Name, &c.Trade, &c.Color, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	var err error
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
