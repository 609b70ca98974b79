package migrations

import (
	"context"
	"database/sql"
)

// All returns every migration in version order
func All() []Migration {
	all := GetInitialMigrations()
	return append(all, GetPerformanceMigrations()...)
}

// GetInitialMigrations returns the table-creating migrations. The DDL is
// shared by sqlite and Postgres, so only portable types are used.
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_employee_tables",
			Up: execAll(`
				CREATE TABLE IF NOT EXISTS employees (
					id BIGINT PRIMARY KEY,
					seq BIGINT NOT NULL,
					name TEXT NOT NULL,
					age INTEGER NOT NULL,
					gender TEXT NOT NULL,
					salary BIGINT NOT NULL
				)`),
			Down: execAll(`DROP TABLE IF EXISTS employees`),
		},
		{
			Version: 2,
			Name:    "create_company_tables",
			Up: execAll(`
				CREATE TABLE IF NOT EXISTS companies (
					id BIGINT PRIMARY KEY,
					seq BIGINT NOT NULL,
					name TEXT NOT NULL
				)`, `
				CREATE TABLE IF NOT EXISTS company_employees (
					company_id BIGINT NOT NULL,
					position INTEGER NOT NULL,
					employee_id BIGINT NOT NULL,
					name TEXT NOT NULL,
					age INTEGER NOT NULL,
					gender TEXT NOT NULL,
					salary BIGINT NOT NULL,
					PRIMARY KEY (company_id, position),
					FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
				)`),
			// Drop tables in reverse order due to foreign key constraints
			Down: execAll(`DROP TABLE IF EXISTS company_employees`, `DROP TABLE IF EXISTS companies`),
		},
	}
}

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 10,
			Name:    "add_performance_indices",
			Up: execAll(
				"CREATE INDEX IF NOT EXISTS idx_employees_gender ON employees(gender)",
				"CREATE INDEX IF NOT EXISTS idx_employees_seq ON employees(seq)",
				"CREATE INDEX IF NOT EXISTS idx_companies_seq ON companies(seq)",
			),
			Down: execAll(
				"DROP INDEX IF EXISTS idx_employees_gender",
				"DROP INDEX IF EXISTS idx_employees_seq",
				"DROP INDEX IF EXISTS idx_companies_seq",
			),
		},
	}
}

func execAll(statements ...string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
