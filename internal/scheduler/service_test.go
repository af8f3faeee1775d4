package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"correlation-service/internal/correlation"
	"correlation-service/internal/logging"
)

// --- Mock Synchronizer ---
type MockSynchronizer struct {
	mock.Mock
}

func (m *MockSynchronizer) UpsertExternalSource(ctx context.Context, userID string, props correlation.ExternalSourceProperties) (string, error) {
	args := m.Called(ctx, userID, props)
	return args.String(0), args.Error(1)
}

func (m *MockSynchronizer) GetProcessingState(ctx context.Context, userID, externalSourceName string) (*correlation.ProcessingState, error) {
	args := m.Called(ctx, userID, externalSourceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*correlation.ProcessingState), args.Error(1)
}

func (m *MockSynchronizer) RecordProcessingState(ctx context.Context, userID string, state correlation.ProcessingState, externalSourceName string) error {
	args := m.Called(ctx, userID, state, externalSourceName)
	return args.Error(0)
}

func newTestService(sync Synchronizer, at time.Time) *SchedulerService {
	s := NewSchedulerService(sync, "sync-user", logging.Discard())
	s.now = func() time.Time { return at }
	return s
}

func engineSchedule(cronExpr string, keys ...string) SourceSchedule {
	return SourceSchedule{
		CronExpression: cronExpr,
		ExternalSource: correlation.ExternalSourceProperties{QualifiedName: "engine-01", EngineType: "DataStage"},
		SyncKeys:       keys,
	}
}

func TestSchedulerService_Start(t *testing.T) {
	t.Run("Adds one entry per enabled schedule", func(t *testing.T) {
		disabled := false
		off := engineSchedule("@every 7s")
		off.Enabled = &disabled

		service := newTestService(new(MockSynchronizer), time.Now())
		err := service.Start([]SourceSchedule{
			engineSchedule("@every 5s", "jobs"),
			engineSchedule("*/10 * * * * *", "lineage"),
			off,
		})

		require.NoError(t, err)
		assert.Len(t, service.cronRunner.Entries(), 2)
		service.Stop(time.Second)
	})

	t.Run("Invalid cron expression is skipped", func(t *testing.T) {
		service := newTestService(new(MockSynchronizer), time.Now())
		err := service.Start([]SourceSchedule{
			engineSchedule("not a cron", "jobs"),
			engineSchedule("@every 5s", "jobs"),
		})

		require.NoError(t, err)
		assert.Len(t, service.cronRunner.Entries(), 1)
		service.Stop(time.Second)
	})

	t.Run("Fails when no schedule can be added", func(t *testing.T) {
		service := newTestService(new(MockSynchronizer), time.Now())
		err := service.Start([]SourceSchedule{engineSchedule("bogus")})

		require.Error(t, err)
		assert.Empty(t, service.cronRunner.Entries())
	})

	t.Run("Empty schedule list starts an idle runner", func(t *testing.T) {
		service := newTestService(new(MockSynchronizer), time.Now())
		require.NoError(t, service.Start(nil))
		assert.Empty(t, service.cronRunner.Entries())
		service.Stop(time.Second)
	})
}

func TestSchedulerService_RunOnce(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	ctx := context.Background()

	t.Run("Merges stored checkpoints with the new keys", func(t *testing.T) {
		sync := new(MockSynchronizer)
		schedule := engineSchedule("@every 5s", "lineage")

		sync.On("UpsertExternalSource", ctx, "sync-user", schedule.ExternalSource).Return("guid-1", nil).Twice()
		sync.On("GetProcessingState", ctx, "sync-user", "engine-01").
			Return(&correlation.ProcessingState{QualifiedName: "engine-01-processing-state", SyncDatesByKey: correlation.SyncDates{"jobs": 10}}, nil).Once()
		expected := correlation.ProcessingState{
			QualifiedName:  "engine-01-processing-state",
			SyncDatesByKey: correlation.SyncDates{"jobs": 10, "lineage": at.UnixMilli()},
		}
		sync.On("RecordProcessingState", ctx, "sync-user", expected, "engine-01").Return(nil).Twice()

		service := newTestService(sync, at)
		require.NoError(t, service.RunOnce(ctx, schedule))
		// The second run uses the cached map instead of reading it again.
		require.NoError(t, service.RunOnce(ctx, schedule))

		assert.Equal(t, expected.SyncDatesByKey, service.Checkpoints("engine-01"))
		sync.AssertExpectations(t)
	})

	t.Run("First run with no stored state", func(t *testing.T) {
		sync := new(MockSynchronizer)
		schedule := engineSchedule("@every 5s", "jobs")
		schedule.ProcessingStateName = "custom-state"

		sync.On("UpsertExternalSource", ctx, "sync-user", schedule.ExternalSource).Return("guid-1", nil).Once()
		sync.On("GetProcessingState", ctx, "sync-user", "engine-01").Return(nil, nil).Once()
		sync.On("RecordProcessingState", ctx, "sync-user", correlation.ProcessingState{
			QualifiedName:  "custom-state",
			SyncDatesByKey: correlation.SyncDates{"jobs": at.UnixMilli()},
		}, "engine-01").Return(nil).Once()

		service := newTestService(sync, at)
		require.NoError(t, service.RunOnce(ctx, schedule))
		sync.AssertExpectations(t)
	})

	t.Run("Upsert failure stops the run", func(t *testing.T) {
		sync := new(MockSynchronizer)
		schedule := engineSchedule("@every 5s", "jobs")
		boom := errors.New("repository unavailable")
		sync.On("UpsertExternalSource", ctx, "sync-user", schedule.ExternalSource).Return("", boom).Once()

		service := newTestService(sync, at)
		err := service.RunOnce(ctx, schedule)

		assert.ErrorIs(t, err, boom)
		sync.AssertNotCalled(t, "RecordProcessingState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, service.Checkpoints("engine-01"))
	})

	t.Run("Failed record leaves the cache untouched", func(t *testing.T) {
		sync := new(MockSynchronizer)
		schedule := engineSchedule("@every 5s", "jobs")
		boom := errors.New("write failed")
		sync.On("UpsertExternalSource", ctx, "sync-user", schedule.ExternalSource).Return("guid-1", nil).Once()
		sync.On("GetProcessingState", ctx, "sync-user", "engine-01").Return(nil, nil).Once()
		sync.On("RecordProcessingState", ctx, "sync-user", mock.Anything, "engine-01").Return(boom).Once()

		service := newTestService(sync, at)
		assert.ErrorIs(t, service.RunOnce(ctx, schedule), boom)
		assert.Empty(t, service.Checkpoints("engine-01"))
	})
}

func TestSchedulerService_RunOnceSourcesDoNotBlockEachOther(t *testing.T) {
	ctx := context.Background()
	sync := new(MockSynchronizer)
	slow := engineSchedule("@every 5s", "jobs")
	fast := engineSchedule("@every 5s", "jobs")
	fast.ExternalSource.QualifiedName = "engine-02"

	entered := make(chan struct{})
	release := make(chan struct{})
	sync.On("UpsertExternalSource", ctx, "sync-user", slow.ExternalSource).Return("guid-1", nil).Once()
	sync.On("GetProcessingState", ctx, "sync-user", "engine-01").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil, nil).Once()
	sync.On("RecordProcessingState", ctx, "sync-user", mock.Anything, "engine-01").Return(nil).Once()

	sync.On("UpsertExternalSource", ctx, "sync-user", fast.ExternalSource).Return("guid-2", nil).Once()
	sync.On("GetProcessingState", ctx, "sync-user", "engine-02").Return(nil, nil).Once()
	sync.On("RecordProcessingState", ctx, "sync-user", mock.Anything, "engine-02").Return(nil).Once()

	service := newTestService(sync, time.Now())

	slowDone := make(chan error, 1)
	go func() { slowDone <- service.RunOnce(ctx, slow) }()
	<-entered

	fastDone := make(chan error, 1)
	go func() { fastDone <- service.RunOnce(ctx, fast) }()
	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("run of engine-02 waited on the run of engine-01")
	}
	assert.NotEmpty(t, service.Checkpoints("engine-02"))

	close(release)
	require.NoError(t, <-slowDone)
	sync.AssertExpectations(t)
}

func TestSchedulerService_RunAll(t *testing.T) {
	ctx := context.Background()
	sync := new(MockSynchronizer)
	disabled := false
	off := engineSchedule("@every 5s", "jobs")
	off.ExternalSource.QualifiedName = "engine-02"
	off.Enabled = &disabled

	on := engineSchedule("@every 5s", "jobs")
	sync.On("UpsertExternalSource", ctx, "sync-user", on.ExternalSource).Return("guid-1", nil).Once()
	sync.On("GetProcessingState", ctx, "sync-user", "engine-01").Return(nil, nil).Once()
	sync.On("RecordProcessingState", ctx, "sync-user", mock.Anything, "engine-01").Return(nil).Once()

	service := newTestService(sync, time.Now())
	require.NoError(t, service.RunAll(ctx, []SourceSchedule{on, off}))
	sync.AssertExpectations(t)
}

func TestParseSchedule(t *testing.T) {
	t.Run("Valid document", func(t *testing.T) {
		doc := `
sources:
  - cron: "0 */5 * * * *"
    externalSource:
      qualifiedName: "(host)=engine-01"
      engineType: DataStage
      additionalProperties:
        region: eu
    syncKeys: [jobs, lineage]
  - cron: "@every 1h"
    enabled: false
    processingStateName: nightly
    externalSource:
      qualifiedName: engine-02
`
		schedules, err := ParseSchedule(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, schedules, 2)

		assert.Equal(t, "(host)=engine-01", schedules[0].ExternalSource.QualifiedName)
		assert.Equal(t, "DataStage", schedules[0].ExternalSource.EngineType)
		assert.Equal(t, map[string]string{"region": "eu"}, schedules[0].ExternalSource.AdditionalProperties)
		assert.Equal(t, []string{"jobs", "lineage"}, schedules[0].SyncKeys)
		assert.True(t, schedules[0].IsEnabled())
		assert.Equal(t, "(host)=engine-01-processing-state", schedules[0].StateName())

		assert.False(t, schedules[1].IsEnabled())
		assert.Equal(t, "nightly", schedules[1].StateName())
	})

	t.Run("Empty document", func(t *testing.T) {
		schedules, err := ParseSchedule(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, schedules)
	})

	t.Run("Missing qualified name", func(t *testing.T) {
		_, err := ParseSchedule(strings.NewReader("sources:\n  - cron: \"@every 1s\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "qualifiedName")
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := ParseSchedule(strings.NewReader("sources:\n  - crontab: x\n"))
		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadScheduleFile(t.TempDir() + "/absent.yaml")
		require.Error(t, err)
	})
}
