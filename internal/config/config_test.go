package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	require.NotNil(t, config)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, StoreMemory, config.Store)
	assert.Equal(t, "~/roster/data/roster.db", config.DBPath)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
	assert.NoError(t, config.Validate())
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\nstore: sqlite\nshutdown_timeout: 3s\n"), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", config.Port)
	assert.Equal(t, StoreSQLite, config.Store)
	assert.Equal(t, 3*time.Second, config.ShutdownTimeout)
	assert.Equal(t, "~/roster/data/roster.db", config.DBPath)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), config)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "sqlite", mutate: func(c *Config) { c.Store = StoreSQLite }},
		{name: "postgres with url", mutate: func(c *Config) {
			c.Store = StorePostgres
			c.DatabaseURL = "postgres://localhost/roster"
		}},
		{name: "postgres without url", mutate: func(c *Config) { c.Store = StorePostgres }, wantErr: "database_url"},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.Store = StoreSQLite
			c.DBPath = ""
		}, wantErr: "db_path"},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "redis" }, wantErr: "unknown store"},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: "port"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: "shutdown_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	config := NewConfig()
	config.LogLevel = "debug"

	level, err := config.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", NewConfig().Addr())
}

func TestConfig_expandPath_WithTilde(t *testing.T) {
	config := NewConfig()

	expanded := config.expandPath("~/test/path")

	assert.False(t, strings.HasPrefix(expanded, "~/"), "expected path to be expanded, got %q", expanded)
	assert.True(t, strings.HasSuffix(expanded, filepath.Join("test", "path")))
}

func TestConfig_expandPath_WithoutTilde(t *testing.T) {
	config := NewConfig()

	assert.Equal(t, "/absolute/path", config.expandPath("/absolute/path"))
	assert.Equal(t, "relative/path", config.expandPath("relative/path"))
}

func TestConfig_InitializeDatabase_Success(t *testing.T) {
	config := NewConfig()
	config.Store = StoreSQLite
	config.DBPath = filepath.Join(t.TempDir(), "test.db")

	ds, err := config.InitializeDatabase(context.Background())
	require.NoError(t, err)
	defer func() { _ = ds.Close() }()

	require.NoError(t, ds.DB.Ping())

	version, err := ds.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), version)

	var journalMode string
	require.NoError(t, ds.DB.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))
}

func TestConfig_InitializeDatabase_DirectoryCreation(t *testing.T) {
	config := NewConfig()
	config.Store = StoreSQLite
	config.DBPath = filepath.Join(t.TempDir(), "nested", "path", "test.db")

	ds, err := config.InitializeDatabase(context.Background())
	require.NoError(t, err)
	defer func() { _ = ds.Close() }()

	_, err = os.Stat(filepath.Dir(config.DBPath))
	assert.NoError(t, err)
}

func TestConfig_InitializeDatabase_InvalidPath(t *testing.T) {
	// A regular file where a directory is expected cannot be created over
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	config := NewConfig()
	config.Store = StoreSQLite
	config.DBPath = filepath.Join(blocker, "sub", "roster.db")

	ds, err := config.InitializeDatabase(context.Background())
	if err == nil {
		_ = ds.Close()
		t.Fatal("Expected error for invalid path")
	}
	assert.Contains(t, err.Error(), "failed to create database directory")
}

func TestConfig_InitializeDatabase_MemoryStore(t *testing.T) {
	_, err := NewConfig().InitializeDatabase(context.Background())
	assert.ErrorContains(t, err, "has no database")
}

func TestConfig_InitializeDatabase_PostgresDialect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := NewConfig()
	config.Store = StorePostgres
	config.DatabaseURL = "postgres://127.0.0.1:1/roster?sslmode=disable&connect_timeout=1"

	_, err := config.InitializeDatabase(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach postgres database")
}
