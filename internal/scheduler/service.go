// Package scheduler drives periodic synchronization of external sources.
// Each run registers the source and advances its checkpoints.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"correlation-service/internal/correlation"
)

// Synchronizer is the part of the correlation service a run needs.
type Synchronizer interface {
	UpsertExternalSource(ctx context.Context, userID string, props correlation.ExternalSourceProperties) (string, error)
	GetProcessingState(ctx context.Context, userID, externalSourceName string) (*correlation.ProcessingState, error)
	RecordProcessingState(ctx context.Context, userID string, state correlation.ProcessingState, externalSourceName string) error
}

// SchedulerService runs SourceSchedules on their cron expressions.
//
// Recording a processing state replaces the stored map, so the service
// keeps the full checkpoint map of every source and writes it back whole.
// Runs of one source are serialized; runs of different sources are not.
type SchedulerService struct {
	cronRunner   *cron.Cron
	synchronizer Synchronizer
	userID       string
	logger       *slog.Logger
	now          func() time.Time
	runTimeout   time.Duration

	mu          sync.Mutex // guards checkpoints and sourceLocks
	checkpoints map[string]correlation.SyncDates
	sourceLocks map[string]*sync.Mutex
}

// NewSchedulerService creates a service issuing requests as userID.
func NewSchedulerService(synchronizer Synchronizer, userID string, logger *slog.Logger) *SchedulerService {
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger: logger}
	return &SchedulerService{
		cronRunner: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(
				cron.SkipIfStillRunning(cl),
				cron.Recover(cl),
			),
		),
		synchronizer: synchronizer,
		userID:       userID,
		logger:       logger,
		now:          time.Now,
		runTimeout:   time.Minute,
		checkpoints:  make(map[string]correlation.SyncDates),
		sourceLocks:  make(map[string]*sync.Mutex),
	}
}

// Start adds a job per enabled schedule and starts the cron runner.
// Schedules with an invalid cron expression are logged and skipped.
func (s *SchedulerService) Start(schedules []SourceSchedule) error {
	added := 0
	for _, schedule := range schedules {
		if !schedule.IsEnabled() {
			s.logger.Info("schedule disabled", "externalSource", schedule.ExternalSource.QualifiedName)
			continue
		}
		current := schedule
		entryID, err := s.cronRunner.AddFunc(current.CronExpression, func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
			defer cancel()
			if err := s.RunOnce(ctx, current); err != nil {
				s.logger.Error("synchronization failed", "externalSource", current.ExternalSource.QualifiedName, "error", err)
			}
		})
		if err != nil {
			s.logger.Error("invalid cron expression",
				"externalSource", current.ExternalSource.QualifiedName, "cron", current.CronExpression, "error", err)
			continue
		}
		added++
		s.logger.Info("scheduled synchronization",
			"externalSource", current.ExternalSource.QualifiedName, "cron", current.CronExpression, "entry", int(entryID))
	}
	if added == 0 && len(schedules) > 0 {
		return fmt.Errorf("none of the %d schedules could be added", len(schedules))
	}

	s.cronRunner.Start()
	return nil
}

// Stop stops the cron runner and waits up to timeout for running jobs.
func (s *SchedulerService) Stop(timeout time.Duration) {
	ctx := s.cronRunner.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("scheduler stopped")
	case <-time.After(timeout):
		s.logger.Warn("scheduler shutdown timed out")
	}
}

// RunAll runs every enabled schedule once, in order, and returns the first
// error.
func (s *SchedulerService) RunAll(ctx context.Context, schedules []SourceSchedule) error {
	for _, schedule := range schedules {
		if !schedule.IsEnabled() {
			continue
		}
		if err := s.RunOnce(ctx, schedule); err != nil {
			return fmt.Errorf("synchronize %s: %w", schedule.ExternalSource.QualifiedName, err)
		}
	}
	return nil
}

// RunOnce registers the external source and stamps each of its sync keys
// with the current time.
func (s *SchedulerService) RunOnce(ctx context.Context, schedule SourceSchedule) error {
	qualifiedName := schedule.ExternalSource.QualifiedName
	lock := s.sourceLock(qualifiedName)
	lock.Lock()
	defer lock.Unlock()

	guid, err := s.synchronizer.UpsertExternalSource(ctx, s.userID, schedule.ExternalSource)
	if err != nil {
		return err
	}

	dates, ok := s.cached(qualifiedName)
	if !ok {
		state, err := s.synchronizer.GetProcessingState(ctx, s.userID, qualifiedName)
		if err != nil {
			return err
		}
		if state != nil {
			dates = state.SyncDatesByKey
		}
	}

	at := s.now().UnixMilli()
	next := dates.Clone()
	for _, key := range schedule.SyncKeys {
		next[key] = at
	}

	state := correlation.ProcessingState{QualifiedName: schedule.StateName(), SyncDatesByKey: next}
	if err := s.synchronizer.RecordProcessingState(ctx, s.userID, state, qualifiedName); err != nil {
		return err
	}
	s.mu.Lock()
	s.checkpoints[qualifiedName] = next
	s.mu.Unlock()
	s.logger.Info("synchronized external source", "externalSource", qualifiedName, "guid", guid, "keys", len(next))
	return nil
}

// Checkpoints returns a copy of the last recorded map for the source.
func (s *SchedulerService) Checkpoints(qualifiedName string) correlation.SyncDates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoints[qualifiedName].Clone()
}

func (s *SchedulerService) sourceLock(qualifiedName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sourceLocks[qualifiedName]
	if !ok {
		l = &sync.Mutex{}
		s.sourceLocks[qualifiedName] = l
	}
	return l
}

func (s *SchedulerService) cached(qualifiedName string) (correlation.SyncDates, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates, ok := s.checkpoints[qualifiedName]
	return dates, ok
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
