package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jbweber/homelab/roster/internal/datastore"
	"github.com/jbweber/homelab/roster/internal/domain"
)

// EmployeeRepository defines domain-specific operations for employees
type EmployeeRepository interface {
	Repository[domain.Employee, int64]
	// FindByGender returns employees whose gender equals the argument exactly
	FindByGender(ctx context.Context, gender string) ([]domain.Employee, error)
}

// memoryEmployeeRepository implements EmployeeRepository in process memory
type memoryEmployeeRepository struct {
	*MemoryRepository[domain.Employee]
}

// NewMemoryEmployeeRepository creates an empty in-memory employee repository
func NewMemoryEmployeeRepository() EmployeeRepository {
	return &memoryEmployeeRepository{
		MemoryRepository: NewMemoryRepository[domain.Employee]("employee"),
	}
}

// FindByGender returns employees whose gender equals the argument exactly
func (r *memoryEmployeeRepository) FindByGender(ctx context.Context, gender string) ([]domain.Employee, error) {
	return r.Filter(func(e domain.Employee) bool { return e.Gender == gender }), nil
}

const selectEmployees = "SELECT id, name, age, gender, salary FROM employees"

// sqlEmployeeRepository implements EmployeeRepository on top of a Datastore
type sqlEmployeeRepository struct {
	*sqlRepository
}

// NewSQLEmployeeRepository creates an employee repository backed by the
// datastore's employees table
func NewSQLEmployeeRepository(ds *datastore.Datastore, logger *slog.Logger) EmployeeRepository {
	return &sqlEmployeeRepository{
		sqlRepository: newSQLRepository(ds, "employees", "employee", logger),
	}
}

// FindAll retrieves all employees in insertion order
func (r *sqlEmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	employees, err := r.list(ctx, selectEmployees+" ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// FindByID retrieves an employee by its ID
func (r *sqlEmployeeRepository) FindByID(ctx context.Context, id int64) (domain.Employee, error) {
	employees, err := r.list(ctx, selectEmployees+" WHERE id = ?", id)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to find employee: %w", err)
	}
	if len(employees) == 0 {
		return domain.Employee{}, r.notFound(id)
	}
	return employees[0], nil
}

// FindByPage retrieves one page of employees in insertion order
func (r *sqlEmployeeRepository) FindByPage(ctx context.Context, page, pageSize int) ([]domain.Employee, error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return nil, err
	}
	employees, err := r.list(ctx, selectEmployees+" ORDER BY seq LIMIT ? OFFSET ?", int64(pageSize), pageOffset(page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to page employees: %w", err)
	}
	return employees, nil
}

// FindByGender returns employees whose gender equals the argument exactly
func (r *sqlEmployeeRepository) FindByGender(ctx context.Context, gender string) ([]domain.Employee, error) {
	employees, err := r.list(ctx, selectEmployees+" WHERE gender = ? ORDER BY seq", gender)
	if err != nil {
		return nil, fmt.Errorf("failed to find employees by gender: %w", err)
	}
	return employees, nil
}

// Create inserts a new employee, assigning an ID when it has none
func (r *sqlEmployeeRepository) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		id, seq, err := r.assignIdentity(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		e.ID = id
		_, err = tx.ExecContext(ctx, r.ds.Rebind(`
			INSERT INTO employees (id, seq, name, age, gender, salary)
			VALUES (?, ?, ?, ?, ?, ?)`),
			e.ID, seq, e.Name, e.Age, e.Gender, e.Salary)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Employee{}, err
	}
	return e, nil
}

// Save replaces the stored employee with the same ID
func (r *sqlEmployeeRepository) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	result, err := r.exec(ctx, "UPDATE employees SET name = ?, age = ?, gender = ?, salary = ? WHERE id = ?",
		e.Name, e.Age, e.Gender, e.Salary, e.ID)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if affected == 0 {
		return domain.Employee{}, r.notFound(e.ID)
	}
	return e, nil
}

// DeleteByID removes an employee by its ID
func (r *sqlEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.exec(ctx, "DELETE FROM employees WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// Clear removes every employee
func (r *sqlEmployeeRepository) Clear(ctx context.Context) error {
	if _, err := r.exec(ctx, "DELETE FROM employees"); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}
	return nil
}

func (r *sqlEmployeeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	employees := []domain.Employee{}
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Age, &e.Gender, &e.Salary); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
