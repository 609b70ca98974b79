package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/roster/internal/config"
)

var rollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and print the schema version",
	Long: `Apply every pending migration and print the schema version.
With --rollback the most recent migration is reverted afterwards; the next
serve or migrate run applies it again.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Store == config.StoreMemory {
			return errors.New("the memory store has no schema; use --store sqlite or --store postgres")
		}

		ctx := context.Background()
		ds, err := cfg.InitializeDatabase(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer func() { _ = ds.Close() }()

		if rollback {
			if err := ds.Rollback(ctx); err != nil {
				return err
			}
		}

		version, err := ds.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d\n", ds.Dialect, version)
		return nil
	},
}

func init() {
	addStoreFlags(migrateCmd)
	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "Revert the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}
