package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coopsoft/usermgmt/internal/config"
	"github.com/coopsoft/usermgmt/internal/infrastructure/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(postgres.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(postgres.MigrateDown)
	},
}

func withDB(fn func(*sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DBAddr == "" {
		return fmt.Errorf("missing required env var: DB_ADDR")
	}
	db, err := config.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
