package models

import (
	"math"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the six-field, seconds-first syntax used by recurring runs,
// plus descriptors such as @hourly.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

const (
	MinMaxConcurrency = 1
	MaxMaxConcurrency = 10

	// MaxIntervalSecond is the longest periodic interval representable as a time.Duration.
	MaxIntervalSecond = math.MaxInt64 / int64(time.Second)
)

type RecurringRunMode string

const (
	RecurringRunModeUnspecified RecurringRunMode = "MODE_UNSPECIFIED"
	RecurringRunModeEnable      RecurringRunMode = "ENABLE"
	RecurringRunModeDisable     RecurringRunMode = "DISABLE"
)

var recurringRunModes = []RecurringRunMode{
	RecurringRunModeUnspecified, RecurringRunModeEnable, RecurringRunModeDisable,
}

func ParseRecurringRunMode(s string) (RecurringRunMode, error) {
	return parseEnum("recurring run mode", s, recurringRunModes)
}

func (m *RecurringRunMode) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, m, ParseRecurringRunMode)
}

type RecurringRunStatus string

const (
	RecurringRunStatusUnspecified RecurringRunStatus = "STATUS_UNSPECIFIED"
	RecurringRunStatusEnabled     RecurringRunStatus = "ENABLED"
	RecurringRunStatusDisabled    RecurringRunStatus = "DISABLED"
)

var recurringRunStatuses = []RecurringRunStatus{
	RecurringRunStatusUnspecified, RecurringRunStatusEnabled, RecurringRunStatusDisabled,
}

func ParseRecurringRunStatus(s string) (RecurringRunStatus, error) {
	return parseEnum("recurring run status", s, recurringRunStatuses)
}

func (s *RecurringRunStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseRecurringRunStatus)
}

type CronSchedule struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Cron      string     `json:"cron,omitempty"`
}

type PeriodicSchedule struct {
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	IntervalSecond int64      `json:"interval_second,string,omitempty"`
}

// Trigger defines what starts a recurring run. Exactly one schedule is set.
type Trigger struct {
	CronSchedule     *CronSchedule     `json:"cron_schedule,omitempty"`
	PeriodicSchedule *PeriodicSchedule `json:"periodic_schedule,omitempty"`
}

// ValidateCron checks a seconds-first cron expression.
func ValidateCron(expr string) error {
	_, err := ParseCron(expr)
	return err
}

func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, malformedValue("invalid cron expression %q: %v", expr, err)
	}
	return schedule, nil
}

func (t *Trigger) Validate() error {
	switch {
	case t.CronSchedule != nil && t.PeriodicSchedule != nil:
		return malformedArgument("cron_schedule and periodic_schedule are mutually exclusive")
	case t.CronSchedule != nil:
		if t.CronSchedule.Cron == "" {
			return MissingArgument("cron_schedule.cron")
		}
		if err := ValidateCron(t.CronSchedule.Cron); err != nil {
			return err
		}
		return validateWindow(t.CronSchedule.StartTime, t.CronSchedule.EndTime)
	case t.PeriodicSchedule != nil:
		if t.PeriodicSchedule.IntervalSecond <= 0 || t.PeriodicSchedule.IntervalSecond > MaxIntervalSecond {
			return InvalidValue("periodic_schedule.interval_second", t.PeriodicSchedule.IntervalSecond)
		}
		return validateWindow(t.PeriodicSchedule.StartTime, t.PeriodicSchedule.EndTime)
	default:
		return MissingArgument("cron_schedule or periodic_schedule")
	}
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return malformedValue("end_time %s must be after start_time %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return nil
}

type RecurringRun struct {
	RecurringRunID           string                    `json:"recurring_run_id,omitempty"`
	DisplayName              string                    `json:"display_name,omitempty"`
	Description              string                    `json:"description,omitempty"`
	PipelineVersionReference *PipelineVersionReference `json:"pipeline_version_reference,omitempty"`
	PipelineSpec             map[string]interface{}    `json:"pipeline_spec,omitempty"`
	RuntimeConfig            *RuntimeConfig            `json:"runtime_config,omitempty"`
	ServiceAccount           string                    `json:"service_account,omitempty"`
	MaxConcurrency           int64                     `json:"max_concurrency,string,omitempty"`
	Trigger                  *Trigger                  `json:"trigger,omitempty"`
	Mode                     RecurringRunMode          `json:"mode,omitempty"`
	CreatedAt                *time.Time                `json:"created_at,omitempty"`
	UpdatedAt                *time.Time                `json:"updated_at,omitempty"`
	Status                   RecurringRunStatus        `json:"status,omitempty"`
	Error                    *Status                   `json:"error,omitempty"`
	NoCatchup                bool                      `json:"no_catchup,omitempty"`
	Namespace                string                    `json:"namespace,omitempty"`
	ExperimentID             string                    `json:"experiment_id,omitempty"`
}

func NewRecurringRun(displayName string, source PipelineSource, trigger *Trigger) (*RecurringRun, error) {
	if displayName == "" {
		return nil, MissingArgument("display_name")
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if trigger == nil {
		return nil, MissingArgument("trigger")
	}
	if err := trigger.Validate(); err != nil {
		return nil, err
	}
	return &RecurringRun{
		DisplayName:              displayName,
		PipelineVersionReference: source.Reference,
		PipelineSpec:             source.Spec,
		Trigger:                  trigger,
	}, nil
}

func (r *RecurringRun) Validate() error {
	if r.DisplayName == "" {
		return MissingArgument("display_name")
	}
	source := PipelineSource{Reference: r.PipelineVersionReference, Spec: r.PipelineSpec}
	if err := source.Validate(); err != nil {
		return err
	}
	if r.Trigger == nil {
		return MissingArgument("trigger")
	}
	if err := r.Trigger.Validate(); err != nil {
		return err
	}
	if r.MaxConcurrency != 0 && (r.MaxConcurrency < MinMaxConcurrency || r.MaxConcurrency > MaxMaxConcurrency) {
		return InvalidValue("max_concurrency", r.MaxConcurrency)
	}
	if r.Mode != "" {
		if _, err := ParseRecurringRunMode(string(r.Mode)); err != nil {
			return err
		}
	}
	return nil
}

type ListRecurringRunsResponse struct {
	RecurringRuns []*RecurringRun `json:"recurringRuns"`
	TotalSize     int             `json:"total_size,omitempty"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}
