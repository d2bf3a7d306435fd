package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/google/uuid"
)

type companyService struct {
	companies repository.CompanyRepo
}

func NewCompanyService(companies repository.CompanyRepo) CompanyService {
	return &companyService{companies: companies}
}

func (s *companyService) Create(ctx context.Context, c *domain.Company) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("company name is required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	return s.companies.Create(ctx, c)
}

func (s *companyService) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	c, err := s.companies.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", name, err)
	}
	return c, nil
}

func (s *companyService) List(ctx context.Context) ([]*domain.Company, error) {
	return s.companies.List(ctx)
}
