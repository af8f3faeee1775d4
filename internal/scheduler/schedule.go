package scheduler

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"correlation-service/internal/correlation"
)

// ScheduleFile is the document read from SYNC_SCHEDULE_FILE.
//
//	sources:
//	  - cron: "0 */5 * * * *"
//	    externalSource:
//	      qualifiedName: "(host)=engine-01"
//	      engineType: DataStage
//	    syncKeys: [jobs, lineage]
type ScheduleFile struct {
	Sources []SourceSchedule `yaml:"sources"`
}

// SourceSchedule describes when an external source is synchronized and
// which checkpoint keys each run advances.
type SourceSchedule struct {
	CronExpression string                               `yaml:"cron"`
	Enabled        *bool                                `yaml:"enabled,omitempty"`
	ExternalSource correlation.ExternalSourceProperties `yaml:"externalSource"`
	// ProcessingStateName defaults to the source's qualified name with a
	// "-processing-state" suffix.
	ProcessingStateName string   `yaml:"processingStateName,omitempty"`
	SyncKeys            []string `yaml:"syncKeys"`
}

// IsEnabled reports whether the schedule should run. Schedules are enabled
// unless switched off explicitly.
func (s SourceSchedule) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// StateName returns the qualified name of the processing state record.
func (s SourceSchedule) StateName() string {
	if s.ProcessingStateName != "" {
		return s.ProcessingStateName
	}
	return s.ExternalSource.QualifiedName + "-processing-state"
}

// ParseSchedule decodes a schedule document.
func ParseSchedule(r io.Reader) ([]SourceSchedule, error) {
	var f ScheduleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	for i, s := range f.Sources {
		if s.ExternalSource.QualifiedName == "" {
			return nil, fmt.Errorf("schedule %d: externalSource.qualifiedName is required", i)
		}
		if s.CronExpression == "" {
			return nil, fmt.Errorf("schedule %d (%s): cron is required", i, s.ExternalSource.QualifiedName)
		}
	}
	return f.Sources, nil
}

// LoadScheduleFile reads and decodes the schedule document at path.
func LoadScheduleFile(path string) ([]SourceSchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule file: %w", err)
	}
	defer f.Close()
	return ParseSchedule(f)
}
