package main

import (
	"errors"
	"fmt"

	"github.com/kamilpajak/pulse/internal/database"
	"github.com/spf13/cobra"
)

var migrateDown bool

var errNoDatabase = errors.New("database_url is not set (PULSE_DATABASE_URL)")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the run history schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations")
	migrateCmd.Flags().String("database-url", "", "PostgreSQL connection URL")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.DatabaseURL == "" {
		return errNoDatabase
	}

	if migrateDown {
		if err := database.MigrateDown(cfg.DatabaseURL); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Migrations rolled back")
		return nil
	}

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Migrations complete")
	return nil
}
