package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestDSN(t *testing.T) {
	dsn := NewTestDSN("TestName")
	if !strings.Contains(dsn, "file:TestName?mode=memory&cache=shared") {
		t.Errorf("NewTestDSN did not generate expected DSN, got: %s", dsn)
	}
}

func TestNewTestDatastore(t *testing.T) {
	ds := NewTestDatastore(t, t.Name())

	require.NoError(t, ds.DB.Ping())

	// Verify main application tables exist
	for _, table := range []string{"schema_migrations", "employees", "companies", "company_employees"} {
		var count int
		err := ds.DB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "expected table %s to exist", table)
	}
}

func TestNewTestDatastore_SubtestNames(t *testing.T) {
	t.Run("with spaces/and slashes", func(t *testing.T) {
		ds := NewTestDatastore(t, t.Name())
		assert.NoError(t, ds.DB.Ping())
	})
}

func TestNewTestDatastore_Isolated(t *testing.T) {
	ds1 := NewTestDatastore(t, "TestNewTestDatastore_Isolated_1")
	ds2 := NewTestDatastore(t, "TestNewTestDatastore_Isolated_2")

	_, err := ds1.DB.Exec("INSERT INTO companies (id, seq, name) VALUES (1, 1, 'spring')")
	require.NoError(t, err)

	var count int
	require.NoError(t, ds2.DB.QueryRow("SELECT COUNT(*) FROM companies").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCleanupTestDB(t *testing.T) {
	// Test cleanup with in-memory database (should not error)
	err := CleanupTestDB(NewTestDSN("test-cleanup"))
	assert.NoError(t, err)

	// Multiple calls are safe
	assert.NoError(t, CleanupTestDB(NewTestDSN("test-cleanup")))

	// Test cleanup with invalid DSN
	err = CleanupTestDB("invalid-dsn")
	assert.Error(t, err)
}
