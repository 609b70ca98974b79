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

// EmployeeService orchestrates employee operations
type EmployeeService struct {
	repo   repository.EmployeeRepository
	logger *slog.Logger

	// updateMu serialises the find-then-save sequence in Update
	updateMu sync.Mutex
}

// NewEmployeeService creates an EmployeeService. A nil logger falls back to slog.Default().
func NewEmployeeService(repo repository.EmployeeRepository, logger *slog.Logger) (*EmployeeService, error) {
	if repo == nil {
		return nil, errors.New("new employee service: repository is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeService{repo: repo, logger: logger.With("service", "employees")}, nil
}

func (s *EmployeeService) FindAll(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.FindAll(ctx)
}

func (s *EmployeeService) FindByID(ctx context.Context, id int64) (domain.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) FindByGender(ctx context.Context, gender string) ([]domain.Employee, error) {
	return s.repo.FindByGender(ctx, gender)
}

func (s *EmployeeService) FindByPage(ctx context.Context, page, pageSize int) ([]domain.Employee, error) {
	return s.repo.FindByPage(ctx, page, pageSize)
}

func (s *EmployeeService) Create(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}
	s.logger.DebugContext(ctx, "employee created", "id", created.ID)
	return created, nil
}

// Update applies patch to the stored employee. Age and salary always come
// from the patch; name and gender are never changed here.
func (s *EmployeeService) Update(ctx context.Context, id int64, patch domain.Employee) (domain.Employee, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("update employee: %w", err)
	}

	existing.Age = patch.Age
	existing.Salary = patch.Salary

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	s.logger.DebugContext(ctx, "employee updated", "id", id, "age", updated.Age, "salary", updated.Salary)
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "employee deleted", "id", id)
	return nil
}
