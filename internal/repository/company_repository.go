package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jbweber/homelab/roster/internal/datastore"
	"github.com/jbweber/homelab/roster/internal/domain"
)

// CompanyRepository defines domain-specific operations for companies
type CompanyRepository interface {
	Repository[domain.Company, int64]
	// GetEmployees returns the employees embedded in the company
	// Returns ErrNotFound if the company doesn't exist
	GetEmployees(ctx context.Context, companyID int64) ([]domain.Employee, error)
}

// memoryCompanyRepository implements CompanyRepository in process memory
type memoryCompanyRepository struct {
	*MemoryRepository[domain.Company]
}

// NewMemoryCompanyRepository creates an empty in-memory company repository
func NewMemoryCompanyRepository() CompanyRepository {
	return &memoryCompanyRepository{
		MemoryRepository: NewMemoryRepository[domain.Company]("company"),
	}
}

// GetEmployees returns the employees embedded in the company
func (r *memoryCompanyRepository) GetEmployees(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	company, err := r.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company.Employees, nil
}

// sqlCompanyRepository implements CompanyRepository on top of a Datastore.
// Embedded employees live in company_employees, ordered by position.
type sqlCompanyRepository struct {
	*sqlRepository
}

// NewSQLCompanyRepository creates a company repository backed by the
// datastore's companies and company_employees tables
func NewSQLCompanyRepository(ds *datastore.Datastore, logger *slog.Logger) CompanyRepository {
	return &sqlCompanyRepository{
		sqlRepository: newSQLRepository(ds, "companies", "company", logger),
	}
}

// FindAll retrieves all companies in insertion order
func (r *sqlCompanyRepository) FindAll(ctx context.Context) ([]domain.Company, error) {
	companies, err := r.list(ctx, "SELECT id, name FROM companies ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// FindByID retrieves a company and its employees by the company ID
func (r *sqlCompanyRepository) FindByID(ctx context.Context, id int64) (domain.Company, error) {
	companies, err := r.list(ctx, "SELECT id, name FROM companies WHERE id = ?", id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to find company: %w", err)
	}
	if len(companies) == 0 {
		return domain.Company{}, r.notFound(id)
	}
	return companies[0], nil
}

// FindByPage retrieves one page of companies in insertion order
func (r *sqlCompanyRepository) FindByPage(ctx context.Context, page, pageSize int) ([]domain.Company, error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	companies, err := r.list(ctx, "SELECT id, name FROM companies ORDER BY seq LIMIT ? OFFSET ?", int64(pageSize), pageOffset(page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to page companies: %w", err)
	}
	return companies, nil
}

// GetEmployees returns the employees embedded in the company
func (r *sqlCompanyRepository) GetEmployees(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	company, err := r.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company.Employees, nil
}

// Create inserts a company and its employees, assigning an ID when it has none
func (r *sqlCompanyRepository) Create(ctx context.Context, c domain.Company) (domain.Company, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	c = c.Clone()
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		id, seq, err := r.assignIdentity(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		c.ID = id
		if _, err := tx.ExecContext(ctx, r.ds.Rebind("INSERT INTO companies (id, seq, name) VALUES (?, ?, ?)"), c.ID, seq, c.Name); err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
		return r.insertEmployees(ctx, tx, c)
	})
	if err != nil {
		return domain.Company{}, err
	}
	return c, nil
}

// Save replaces the stored company and its employee list
func (r *sqlCompanyRepository) Save(ctx context.Context, c domain.Company) (domain.Company, error) {
	c = c.Clone()
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, r.ds.Rebind("UPDATE companies SET name = ? WHERE id = ?"), c.Name, c.ID)
		if err != nil {
			return fmt.Errorf("failed to update company: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update company: %w", err)
		}
		if affected == 0 {
			return r.notFound(c.ID)
		}
		if _, err := tx.ExecContext(ctx, r.ds.Rebind("DELETE FROM company_employees WHERE company_id = ?"), c.ID); err != nil {
			return fmt.Errorf("failed to replace company employees: %w", err)
		}
		return r.insertEmployees(ctx, tx, c)
	})
	if err != nil {
		return domain.Company{}, err
	}
	return c, nil
}

// DeleteByID removes a company and its employees
func (r *sqlCompanyRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.ds.Rebind("DELETE FROM company_employees WHERE company_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete company employees: %w", err)
		}
		if _, err := tx.ExecContext(ctx, r.ds.Rebind("DELETE FROM companies WHERE id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete company: %w", err)
		}
		return nil
	})
}

// Clear removes every company
func (r *sqlCompanyRepository) Clear(ctx context.Context) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM company_employees"); err != nil {
			return fmt.Errorf("failed to clear company employees: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM companies"); err != nil {
			return fmt.Errorf("failed to clear companies: %w", err)
		}
		return nil
	})
}

func (r *sqlCompanyRepository) insertEmployees(ctx context.Context, tx *sql.Tx, c domain.Company) error {
	insert := r.ds.Rebind(`
		INSERT INTO company_employees (company_id, position, employee_id, name, age, gender, salary)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for pos, e := range c.Employees {
		if _, err := tx.ExecContext(ctx, insert, c.ID, pos, e.ID, e.Name, e.Age, e.Gender, e.Salary); err != nil {
			return fmt.Errorf("failed to store employee %d of company %d: %w", pos, c.ID, err)
		}
	}
	return nil
}

// list loads the companies selected by query, then their employees
func (r *sqlCompanyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Company, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	companies := []domain.Company{}
	for rows.Next() {
		c := domain.Company{Employees: []domain.Employee{}}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		companies = append(companies, c)
	}
	// Rows must be released before the next query on single-connection pools
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return companies, nil
	}

	if err := r.attachEmployees(ctx, companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *sqlCompanyRepository) attachEmployees(ctx context.Context, companies []domain.Company) error {
	index := make(map[int64]int, len(companies))
	args := make([]any, len(companies))
	for i, c := range companies {
		index[c.ID] = i
		args[i] = c.ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(companies)), ", ")
	query := r.ds.Rebind(`
		SELECT company_id, employee_id, name, age, gender, salary
		FROM company_employees
		WHERE company_id IN (` + placeholders + `)
		ORDER BY company_id, position`)

	rows, err := r.ds.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load company employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var companyID int64
		var e domain.Employee
		if err := rows.Scan(&companyID, &e.ID, &e.Name, &e.Age, &e.Gender, &e.Salary); err != nil {
			return err
		}
		if i, ok := index[companyID]; ok {
			companies[i].Employees = append(companies[i].Employees, e)
		}
	}
	return rows.Err()
}
