package api

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/roster/internal/domain"
)

// EmployeesStore defines the operations the employee handlers need
type EmployeesStore interface {
	FindAll(ctx context.Context) ([]domain.Employee, error)
	FindByID(ctx context.Context, id int64) (domain.Employee, error)
	FindByGender(ctx context.Context, gender string) ([]domain.Employee, error)
	FindByPage(ctx context.Context, page, pageSize int) ([]domain.Employee, error)
	Create(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	Update(ctx context.Context, id int64, patch domain.Employee) (domain.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// CompaniesStore defines the operations the company handlers need
type CompaniesStore interface {
	FindAll(ctx context.Context) ([]domain.Company, error)
	FindByID(ctx context.Context, id int64) (domain.Company, error)
	FindByPage(ctx context.Context, page, pageSize int) ([]domain.Company, error)
	GetEmployees(ctx context.Context, companyID int64) ([]domain.Employee, error)
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	Update(ctx context.Context, id int64, patch domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id int64) error
}

// API holds the service dependencies behind the HTTP handlers
type API struct {
	employees EmployeesStore
	companies CompaniesStore
	logger    *slog.Logger
}

// NewAPI creates a new API instance. A nil logger falls back to slog.Default().
func NewAPI(employees EmployeesStore, companies CompaniesStore, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		employees: employees,
		companies: companies,
		logger:    logger,
	}
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	// Employees endpoints group
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", a.listEmployeesHandler)
		r.Post("/", a.createEmployeeHandler)
		r.Get("/{id}", a.getEmployeeHandler)
		r.Put("/{id}", a.updateEmployeeHandler)
		r.Delete("/{id}", a.deleteEmployeeHandler)
	})

	// Companies endpoints group
	r.Route("/companies", func(r chi.Router) {
		r.Get("/", a.listCompaniesHandler)
		r.Post("/", a.createCompanyHandler)
		r.Get("/{id}", a.getCompanyHandler)
		r.Put("/{id}", a.updateCompanyHandler)
		r.Delete("/{id}", a.deleteCompanyHandler)
		r.Get("/{id}/employees", a.getCompanyEmployeesHandler)
	})
}
