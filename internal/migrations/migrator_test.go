package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Logf("Warning: failed to close test database: %v", closeErr)
		}
	})
	return db
}

func tableCount(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestMigrator_RunMigrations(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RunMigrations")
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	for _, migration := range All() {
		migrator.AddMigration(migration)
	}

	err := migrator.RunMigrations(ctx)
	require.NoError(t, err)

	// Verify current version
	version, err := migrator.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), version)

	// Verify tables exist
	for _, table := range []string{"employees", "companies", "company_employees", "schema_migrations"} {
		assert.Equal(t, 1, tableCount(t, db, table), "table %s", table)
	}

	// Verify migration was recorded
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 2 AND name = 'create_company_tables'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrator_RunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RunMigrations_Idempotent")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		migrator := NewMigrator(db, nil)
		for _, migration := range All() {
			migrator.AddMigration(migration)
		}
		require.NoError(t, migrator.RunMigrations(ctx))
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(All()), count)
}

func TestMigrator_AddMigration(t *testing.T) {
	db := openTestDB(t, "TestMigrator_AddMigration")

	migrator := NewMigrator(db, nil)

	// Add migrations out of order
	migrator.AddMigration(Migration{Version: 3, Name: "third"})
	migrator.AddMigration(Migration{Version: 1, Name: "first"})
	migrator.AddMigration(Migration{Version: 2, Name: "second"})

	// Verify they are sorted
	migrations := migrator.GetMigrations()
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Equal(t, int64(3), migrations[2].Version)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openTestDB(t, "TestMigrator_FailedMigrationIsNotRecorded")
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.AddMigration(Migration{
		Version: 1,
		Name:    "broken",
		Up: func(ctx context.Context, tx *sql.Tx) error {
			return errors.New("boom")
		},
	})

	err := migrator.RunMigrations(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migration 1 (broken)")

	version, err := migrator.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestMigrator_Rollback(t *testing.T) {
	db := openTestDB(t, "TestMigrator_Rollback")
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	for _, migration := range GetInitialMigrations() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations(ctx))
	require.Equal(t, 1, tableCount(t, db, "companies"))

	require.NoError(t, migrator.Rollback(ctx))

	version, err := migrator.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, 0, tableCount(t, db, "companies"))
	assert.Equal(t, 0, tableCount(t, db, "company_employees"))
	assert.Equal(t, 1, tableCount(t, db, "employees"))
}

func TestMigrator_RollbackWithoutDown(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RollbackWithoutDown")
	ctx := context.Background()

	migrator := NewMigrator(db, nil)
	migrator.AddMigration(Migration{
		Version: 1,
		Name:    "one_way",
		Up:      execAll("CREATE TABLE one_way (id BIGINT PRIMARY KEY)"),
	})
	require.NoError(t, migrator.RunMigrations(ctx))

	err := migrator.Rollback(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be reverted")
}

func TestMigrator_RebindIsApplied(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RebindIsApplied")
	ctx := context.Background()

	var rebound []string
	migrator := NewMigrator(db, func(q string) string {
		rebound = append(rebound, q)
		return q
	})
	for _, migration := range GetInitialMigrations() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations(ctx))

	assert.Len(t, rebound, 2)
	assert.Contains(t, rebound[0], "INSERT INTO schema_migrations")
}
