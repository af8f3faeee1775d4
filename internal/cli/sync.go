package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"correlation-service/internal/scheduler"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Once bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the synchronization schedule",
		Long: `Register the external sources listed in the schedule file and advance
their processing state checkpoints on each cron tick.

Example:
  correlation sync --schedule-file ./sync-schedule.yaml
  correlation sync --once --in-memory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Once, "once", false, "run every schedule once and exit")
	cmd.Flags().String("schedule-file", "", "YAML synchronization schedule")

	return cmd
}

func runSync(cmd *cobra.Command, opts *SyncOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	schedules, err := scheduler.LoadScheduleFile(a.cfg.SyncScheduleFile)
	if err != nil {
		return err
	}
	sched := scheduler.NewSchedulerService(a.service, a.cfg.Server.UserID, a.logger)

	if opts.Once {
		if err := sched.RunAll(ctx, schedules); err != nil {
			return err
		}
		cmd.Printf("synchronized %d external sources\n", countEnabled(schedules))
		return nil
	}

	if err := sched.Start(schedules); err != nil {
		return err
	}
	<-ctx.Done()
	sched.Stop(a.cfg.Server.ShutdownTimeout)
	return nil
}

func countEnabled(schedules []scheduler.SourceSchedule) int {
	n := 0
	for _, s := range schedules {
		if s.IsEnabled() {
			n++
		}
	}
	return n
}
