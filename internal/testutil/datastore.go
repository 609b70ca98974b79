package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jbweber/homelab/roster/internal/datastore"
)

// NewTestDSN generates a DSN for an in-memory SQLite database for testing purposes.
func NewTestDSN(testName string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", testName)
}

// CleanupTestDB removes the test database file. In-memory databases have no
// file, so a missing file is not an error.
func CleanupTestDB(dsn string) error {
	// Extract file path from DSN
	if !strings.HasPrefix(dsn, "file:") {
		return fmt.Errorf("invalid DSN format")
	}

	path := dsn[len("file:"):]
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// NewTestDatastore opens a migrated in-memory sqlite datastore that is closed
// when the test finishes.
func NewTestDatastore(t testing.TB, testName string) *datastore.Datastore {
	t.Helper()
	dsn := NewTestDSN(sanitize(testName))

	ds, err := datastore.New(dsn)
	if err != nil {
		t.Fatalf("Failed to open test datastore: %v", err)
	}

	t.Cleanup(func() {
		if err := ds.Close(); err != nil {
			t.Logf("Warning: failed to close test datastore: %v", err)
		}
		if err := CleanupTestDB(dsn); err != nil {
			t.Logf("Warning: failed to clean up test database: %v", err)
		}
	})
	return ds
}

// sanitize turns subtest names into something safe for a DSN path
func sanitize(name string) string {
	return strings.NewReplacer("/", "_", " ", "_", "?", "_", "&", "_").Replace(name)
}
