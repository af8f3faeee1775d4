// Package cli implements the correlation command line.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFiles []string
	InMemory bool
}

// NewRootCommand creates the root command for the correlation service.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "correlation",
		Short: "External source correlation service",
		Long: `Registers external sources, records their synchronization checkpoints
and correlates externally sourced elements with repository entities.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags. Their values override the matching environment keys.
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().BoolVar(&opts.InMemory, "in-memory", false, "use the in-memory repository instead of a database")
	cmd.PersistentFlags().String("db-driver", "", "database driver (postgres|sqlite)")
	cmd.PersistentFlags().String("sqlite-path", "", "path to the SQLite database")
	cmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log-format", "", "log format (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
