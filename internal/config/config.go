package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/homelab/roster/internal/datastore"
)

// Supported storage engines
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the roster service
type Config struct {
	Port            string        `yaml:"port"`
	Store           string        `yaml:"store"`
	DBPath          string        `yaml:"db_path"`
	DatabaseURL     string        `yaml:"database_url"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Port:            "8080",
		Store:           StoreMemory,
		DBPath:          "~/roster/data/roster.db",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads a YAML config file over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("sqlite store requires db_path")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("postgres store requires database_url")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or postgres)", c.Store)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Addr returns the listen address for Port
func (c *Config) Addr() string {
	return ":" + c.Port
}

// InitializeDatabase creates and configures the database for the selected
// store. It is an error to call it for the memory store.
func (c *Config) InitializeDatabase(ctx context.Context) (*datastore.Datastore, error) {
	dialect, err := datastore.ParseDialect(c.Store)
	if err != nil {
		return nil, fmt.Errorf("store %q has no database: %w", c.Store, err)
	}
	if dialect == datastore.SQLite {
		return c.initializeSQLite(ctx)
	}

	ds, err := datastore.Open(ctx, dialect, c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	OptimizeDatabaseConnection(ds.DB)
	return ds, nil
}

func (c *Config) initializeSQLite(ctx context.Context) (*datastore.Datastore, error) {
	dbPath := c.expandPath(c.DBPath)

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	ds, err := datastore.Open(ctx, datastore.SQLite, dbPath)
	if err != nil {
		return nil, err
	}

	// Apply performance optimizations
	OptimizeDatabaseConnection(ds.DB)

	if err := ApplyPragmaOptimizations(ctx, ds.DB); err != nil {
		_ = ds.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}
	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Return original path if we can't get home dir
		return path
	}

	return filepath.Join(homeDir, path[2:])
}
