package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"correlation-service/internal/database"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.InMemory {
				return fmt.Errorf("migrate needs a database; drop --in-memory")
			}
			cfg, err := loadConfig(cmd, rootOpts)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			cmd.Printf("migrated %s database\n", cfg.Database.Driver)
			return nil
		},
	}
}
