package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/roster/internal/config"
)

var (
	verbose     bool
	configPath  string
	port        string
	store       string
	dbPath      string
	databaseURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Employee and company records over a small REST API",
	Long: `Roster serves employees and the companies that employ them over HTTP.
Records live in memory by default, or in SQLite or Postgres when configured.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(slog.LevelInfo)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// addStoreFlags registers the flags shared by commands that open a store
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&store, "store", config.StoreMemory, "Storage engine: memory, sqlite or postgres")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL")
}

// loadConfig reads the config file, overlays flags the user set explicitly
// and reconfigures logging for the resulting level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = store
	}
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	setupLogger(level)
	return cfg, nil
}

func setupLogger(level slog.Level) {
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}
