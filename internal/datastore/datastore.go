package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"

	"github.com/jbweber/homelab/roster/internal/migrations"
)

// Datastore couples a database handle with the dialect it speaks
type Datastore struct {
	DB      *sql.DB
	Dialect Dialect
}

// New creates a new sqlite Datastore and runs migrations.
func New(path string) (*Datastore, error) {
	return Open(context.Background(), SQLite, path)
}

// Open connects to the database, prepares the connection for the dialect and
// brings the schema up to date.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Datastore, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	ds := &Datastore{DB: db, Dialect: dialect}
	if err := ds.prepare(ctx, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ds.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ds, nil
}

// Migrate applies every pending schema migration
func (ds *Datastore) Migrate(ctx context.Context) error {
	migrator := migrations.NewMigrator(ds.DB, ds.Dialect.Rebind)
	for _, migration := range migrations.All() {
		migrator.AddMigration(migration)
	}
	if err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the most recently applied migration
func (ds *Datastore) Rollback(ctx context.Context) error {
	migrator := migrations.NewMigrator(ds.DB, ds.Dialect.Rebind)
	for _, migration := range migrations.All() {
		migrator.AddMigration(migration)
	}
	if err := migrator.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version
func (ds *Datastore) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.NewMigrator(ds.DB, ds.Dialect.Rebind).GetCurrentVersion(ctx)
}

// Rebind rewrites a '?' query for this datastore's dialect
func (ds *Datastore) Rebind(query string) string {
	return ds.Dialect.Rebind(query)
}

// Close releases the underlying database handle
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}

func (ds *Datastore) prepare(ctx context.Context, dsn string) error {
	if ds.Dialect == SQLite && strings.Contains(dsn, "mode=memory") {
		// Shared-cache memory databases lock per table; one connection avoids SQLITE_LOCKED
		ds.DB.SetMaxOpenConns(1)
	}
	if err := ds.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach %s database: %w", ds.Dialect, err)
	}
	if ds.Dialect == SQLite {
		// Enable foreign keys
		if _, err := ds.DB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	return nil
}
