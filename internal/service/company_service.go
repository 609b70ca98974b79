package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jbweber/homelab/roster/internal/domain"
	"github.com/jbweber/homelab/roster/internal/repository"
)

// CompanyService orchestrates company operations
type CompanyService struct {
	repo   repository.CompanyRepository
	logger *slog.Logger

	// updateMu serialises the find-then-save sequence in Update
	updateMu sync.Mutex
}

// NewCompanyService creates a CompanyService. A nil logger falls back to slog.Default().
func NewCompanyService(repo repository.CompanyRepository, logger *slog.Logger) (*CompanyService, error) {
	if repo == nil {
		return nil, errors.New("new company service: repository is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyService{repo: repo, logger: logger.With("service", "companies")}, nil
}

func (s *CompanyService) FindAll(ctx context.Context) ([]domain.Company, error) {
	return s.repo.FindAll(ctx)
}

func (s *CompanyService) FindByID(ctx context.Context, id int64) (domain.Company, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CompanyService) FindByPage(ctx context.Context, page, pageSize int) ([]domain.Company, error) {
	return s.repo.FindByPage(ctx, page, pageSize)
}

func (s *CompanyService) GetEmployees(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	return s.repo.GetEmployees(ctx, companyID)
}

func (s *CompanyService) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	created, err := s.repo.Create(ctx, company)
	if err != nil {
		return domain.Company{}, err
	}
	s.logger.DebugContext(ctx, "company created", "id", created.ID, "employees", len(created.Employees))
	return created, nil
}

// Update renames the stored company when the patch carries a name. The
// stored employee list is kept; employees in the patch are ignored.
func (s *CompanyService) Update(ctx context.Context, id int64, patch domain.Company) (domain.Company, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("update company: %w", err)
	}

	if patch.Name != "" {
		existing.Name = patch.Name
	}

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		return domain.Company{}, fmt.Errorf("update company: %w", err)
	}
	s.logger.DebugContext(ctx, "company updated", "id", id, "name", updated.Name)
	return updated, nil
}

func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "company deleted", "id", id)
	return nil
}
