package commands

import (
	"database/sql"
	"fmt"

	"github.com/Kirtivanjode/wanderwithkii/config"
	"github.com/Kirtivanjode/wanderwithkii/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply or inspect the Postgres schema migrations",
	Long: `Runs the embedded goose migrations against DATABASE_URL.

Examples:
  wanderwithkii migrate up       # Apply all pending migrations
  wanderwithkii migrate down     # Roll back the latest migration
  wanderwithkii migrate status   # Show applied and pending migrations`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(command string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DBDriver != config.DriverPostgres {
		if command != "up" {
			return fmt.Errorf("migrate %s is only supported for postgres", command)
		}
		cfg.DBAutoMigrate = true
		_, closeDB, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		closeDB()
		return nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	switch command {
	case "up":
		err = migrations.Up(db)
	case "down":
		err = migrations.Down(db)
	case "status":
		err = migrations.Status(db)
	}
	if err != nil {
		return err
	}
	log.Infow("Migration finished", "command", command)
	return nil
}
